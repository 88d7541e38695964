package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/form"
	"github.com/locvowork/employee_training_dashboard/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EmployeeHandler struct {
	search  *service.SearchService
	save    *service.SaveService
	modules *service.ModuleStatusService
	export  *service.ExportService
	imports *service.ImportService
	catalog []domain.TrainingModule
	clock   form.Clock
}

func NewEmployeeHandler(
	search *service.SearchService,
	save *service.SaveService,
	modules *service.ModuleStatusService,
	export *service.ExportService,
	imports *service.ImportService,
	catalog []domain.TrainingModule,
	clock form.Clock,
) *EmployeeHandler {
	return &EmployeeHandler{
		search:  search,
		save:    save,
		modules: modules,
		export:  export,
		imports: imports,
		catalog: catalog,
		clock:   clock,
	}
}

func (h *EmployeeHandler) ModulesHandler(c echo.Context) error {
	return ResponseSuccess(c, http.StatusOK, "Training modules listed successfully", h.catalog)
}

func (h *EmployeeHandler) ViewHandler(c echo.Context) error {
	return ResponseSuccess(c, http.StatusOK, "Current view", h.search.View())
}

func (h *EmployeeHandler) LookupHandler(c echo.Context) error {
	agg, err := h.search.Lookup(c.Request().Context(), c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", agg)
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	st := form.NewCreate(h.clock)
	if err := h.applyRequest(c, st); err != nil {
		return ResponseServiceError(c, "Invalid request", err)
	}

	res, err := h.save.Save(c.Request().Context(), st)
	if err != nil {
		return ResponseServiceError(c, "Failed to create employee", err)
	}
	return ResponseSuccess(c, http.StatusCreated, res.Message, newSaveResponse(res))
}

func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	ctx := c.Request().Context()
	agg, err := h.search.Lookup(ctx, c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}

	st := form.NewEdit(agg, h.clock)
	if err := h.applyRequest(c, st); err != nil {
		return ResponseServiceError(c, "Invalid request", err)
	}

	res, err := h.save.Save(ctx, st)
	if err != nil {
		return ResponseServiceError(c, "Failed to update employee", err)
	}
	return ResponseSuccess(c, http.StatusOK, res.Message, newSaveResponse(res))
}

func (h *EmployeeHandler) ModuleStatusHandler(c echo.Context) error {
	moduleID, err := strconv.Atoi(c.Param("module_id"))
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid module ID", err)
	}
	var status domain.ModuleStatus
	switch c.Param("action") {
	case "accept":
		status = domain.ModuleStatusAccepted
	case "deny":
		status = domain.ModuleStatusDenied
	default:
		return ResponseError(c, http.StatusBadRequest, "Invalid action", fmt.Errorf("unknown action %q", c.Param("action")))
	}

	ctx := c.Request().Context()
	agg, err := h.search.Lookup(ctx, c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	agg, err = h.modules.UpdateStatus(ctx, agg.EmpNo, agg.ID, moduleID, status)
	if err != nil {
		return ResponseServiceError(c, "Failed to update training module", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Training module updated successfully", agg)
}

// ModuleRowHandler writes one module status row with an explicit status and
// completion date.
func (h *EmployeeHandler) ModuleRowHandler(c echo.Context) error {
	moduleID, err := strconv.Atoi(c.Param("module_id"))
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid module ID", err)
	}
	var upd service.ModuleRowUpdate
	if err := c.Bind(&upd); err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid request", err)
	}

	ctx := c.Request().Context()
	agg, err := h.search.Lookup(ctx, c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	agg, err = h.modules.SetRow(ctx, agg, moduleID, upd)
	if err != nil {
		return ResponseServiceError(c, "Failed to update training module", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Training module updated successfully", agg)
}

func (h *EmployeeHandler) ModuleResetHandler(c echo.Context) error {
	moduleID, err := strconv.Atoi(c.Param("module_id"))
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid module ID", err)
	}

	ctx := c.Request().Context()
	agg, err := h.search.Lookup(ctx, c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	agg, err = h.modules.ResetRow(ctx, agg, moduleID)
	if err != nil {
		return ResponseServiceError(c, "Failed to reset training module", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Training module reset successfully", agg)
}

func (h *EmployeeHandler) ExportHandler(c echo.Context) error {
	data, name, err := h.export.TrainingCard(c.Request().Context(), c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to export training card", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func (h *EmployeeHandler) ImportHandler(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Missing CSV file", err)
	}
	f, err := fh.Open()
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Failed to open CSV file", err)
	}
	defer f.Close()

	report, err := h.imports.ImportCSV(c.Request().Context(), f)
	if err != nil {
		return ResponseServiceError(c, "Failed to import employees", err)
	}
	return ResponseSuccess(c, http.StatusOK, fmt.Sprintf("Imported %d employee(s)", len(report.Created)), newImportResponse(report))
}

// applyRequest reads a SaveRequest, either as a JSON body or as a multipart
// form whose "payload" part holds the JSON and "photo" part the image.
func (h *EmployeeHandler) applyRequest(c echo.Context, st *form.State) error {
	var req SaveRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if payload := c.FormValue("payload"); payload != "" {
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				return domain.NewValidationError("payload", "invalid JSON")
			}
		}
		photo, err := readPhoto(c)
		if err != nil {
			return err
		}
		if photo != nil {
			if err := st.Dispatch(*photo); err != nil {
				return err
			}
		}
	} else if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("body", "invalid JSON")
	}

	for _, ev := range req.Events() {
		if err := st.Dispatch(ev); err != nil {
			return err
		}
	}
	return nil
}

func readPhoto(c echo.Context) (*form.SelectPhoto, error) {
	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > domain.MaxPhotoSize {
		return nil, domain.NewValidationError("photo", "file is larger than 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxPhotoSize+1))
	if err != nil {
		return nil, err
	}
	return &form.SelectPhoto{Filename: fh.Filename, Data: data}, nil
}
