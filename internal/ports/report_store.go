package ports

import "github.com/avin/lectern/internal/domain"

// ReportStore persists check reports for CI gates and history.
type ReportStore interface {
	SaveReport(report domain.CheckReport) (id string, err error)
	ListReports() ([]domain.ReportRef, error)
}
