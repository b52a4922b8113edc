package repository

import (
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// ExportRepository writes a report as flat files for dashboard tooling.
type ExportRepository interface {
	ExportToCSV(report *entity.Report, target types.OutputTarget) ([]string, error)
	ExportToJSON(report *entity.Report, target types.OutputTarget) (string, error)
	ExportToPDF(report *entity.Report, target types.OutputTarget) (string, error)

	// Stage returns a private target under target.Dir; files exported to it
	// stay invisible until Commit moves them into final.Dir.
	Stage(target types.OutputTarget) (types.OutputTarget, error)
	Commit(staged, final types.OutputTarget, files []string) ([]string, error)
	Discard(staged types.OutputTarget) error
}
