package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
)

// SyncReport counts what a catalog sync changed on the backend.
type SyncReport struct {
	Created   int  `json:"created"`
	Updated   int  `json:"updated"`
	Deleted   int  `json:"deleted"`
	Unchanged int  `json:"unchanged"`
	DryRun    bool `json:"dry_run"`
}

// CatalogService keeps the backend module catalog in line with a local one.
type CatalogService struct {
	modules domain.TrainingModuleRepository
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(modules domain.TrainingModuleRepository) *CatalogService {
	return &CatalogService{modules: modules}
}

// Sync matches modules by s_no. Missing ones are created and changed ones
// updated. With prune, backend modules absent from want are deleted. With
// dryRun nothing is written.
func (s *CatalogService) Sync(ctx context.Context, want []domain.TrainingModule, prune, dryRun bool) (*SyncReport, error) {
	have, err := s.modules.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list training modules")
	}
	bySNo := make(map[int]domain.TrainingModule, len(have))
	for _, m := range have {
		bySNo[m.SNo] = m
	}

	report := &SyncReport{DryRun: dryRun}
	wanted := make(map[int]bool, len(want))
	for _, m := range want {
		wanted[m.SNo] = true
		existing, ok := bySNo[m.SNo]
		switch {
		case !ok:
			report.Created++
			if dryRun {
				continue
			}
			if _, err := s.modules.Create(ctx, m); err != nil {
				return report, errors.Wrapf(err, "create module %d", m.SNo)
			}
			logger.InfoLog(ctx, "created training module %d", m.SNo)
		case existing.Title != m.Title || existing.Expert != m.Expert:
			report.Updated++
			if dryRun {
				continue
			}
			if _, err := s.modules.Update(ctx, existing.ID, m); err != nil {
				return report, errors.Wrapf(err, "update module %d", m.SNo)
			}
			logger.InfoLog(ctx, "updated training module %d", m.SNo)
		default:
			report.Unchanged++
		}
	}

	if !prune {
		return report, nil
	}
	for _, m := range have {
		if wanted[m.SNo] {
			continue
		}
		report.Deleted++
		if dryRun {
			continue
		}
		if err := s.modules.Delete(ctx, m.ID); err != nil {
			return report, errors.Wrapf(err, "delete module %d", m.SNo)
		}
		logger.InfoLog(ctx, "deleted training module %d", m.SNo)
	}
	return report, nil
}
