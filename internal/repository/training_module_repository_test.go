package repository_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/fakebackend"
	"github.com/locvowork/employee_training_dashboard/internal/repository"
)

func TestEmployeeTrainingModuleRepository_CRUD(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	id := b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E900"}})
	repo := repository.NewEmployeeTrainingModuleRepository(newClient(t, b, "tok"))
	ctx := context.Background()

	date := "2024-03-01"
	row, err := repo.Create(ctx, domain.EmployeeTrainingModuleInput{
		Employee:      id,
		ModuleID:      "4",
		Status:        domain.ModuleStatusAccepted,
		CompletedDate: &date,
	})
	require.NoError(t, err)
	require.NotNil(t, row.ID)
	assert.Equal(t, 4, row.Module.ID)
	assert.Equal(t, domain.ModuleStatusAccepted, row.Status)
	require.NotNil(t, row.CompletedDate)
	assert.Equal(t, date, *row.CompletedDate)

	t.Run("module_id goes out as a string", func(t *testing.T) {
		calls := b.CallsTo(http.MethodPost, "/employee-training-modules/")
		require.Len(t, calls, 1)
		var body map[string]interface{}
		require.NoError(t, calls[0].JSON(&body))
		assert.Equal(t, "4", body["module_id"])
		assert.EqualValues(t, id, body["employee"])
		assert.Equal(t, "tok", calls[0].Header.Get("X-CSRFToken"))
	})

	t.Run("second row for the same module is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, domain.EmployeeTrainingModuleInput{Employee: id, ModuleID: "4", Status: domain.ModuleStatusDenied})
		var apiErr *domain.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})

	updated, err := repo.Update(ctx, *row.ID, domain.EmployeeTrainingModuleInput{
		Employee: id,
		ModuleID: "4",
		Status:   domain.ModuleStatusDenied,
	})
	require.NoError(t, err)
	assert.Equal(t, *row.ID, *updated.ID)
	assert.Equal(t, domain.ModuleStatusDenied, updated.Status)
	assert.Nil(t, updated.CompletedDate)

	rows, err := repo.ListByEmployee(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.ModuleStatusDenied, rows[0].Status)

	require.NoError(t, repo.Delete(ctx, *row.ID))
	rows, err = repo.ListByEmployee(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, rows)

	stored, _ := b.Employee(id)
	pending, ok := stored.ModuleByID(4)
	require.True(t, ok)
	assert.Nil(t, pending.ID)
	assert.Equal(t, domain.ModuleStatusPending, pending.Status)

	t.Run("missing row", func(t *testing.T) {
		_, err := repo.Update(ctx, 9999, domain.EmployeeTrainingModuleInput{Employee: id, ModuleID: "4", Status: domain.ModuleStatusDenied})
		var apiErr *domain.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

		err = repo.Delete(ctx, 9999)
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}
