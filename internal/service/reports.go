package service

import (
	"context"
	"fmt"
	"time"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type ReportService struct {
	Repo *repo.GormRepo
}

// Aggregate sums quantity and revenue per product for orders created in
// [from, to). With no explicit statuses every status except cancelado
// counts.
func (s *ReportService) Aggregate(ctx context.Context, from, to time.Time, statuses []string) (*transport.SalesReport, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: empty date range", ErrValidation)
	}
	if len(statuses) == 0 {
		statuses = defaultReportStatuses()
	} else {
		for _, st := range statuses {
			if !models.ValidStatus(st) {
				return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, st)
			}
		}
	}

	rows, orderCount, err := s.Repo.AggregateSales(ctx, from, to, statuses)
	if err != nil {
		return nil, err
	}

	report := &transport.SalesReport{
		PerProduct: rows,
		OrderCount: orderCount,
	}
	for _, row := range rows {
		report.GrandTotal += row.Revenue
	}
	return report, nil
}

// Day returns the aggregation window covering one calendar day.
func Day(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}

func defaultReportStatuses() []string {
	statuses := make([]string, 0, len(models.Transitions))
	for st := range models.Transitions {
		if st != models.StatusCancelado {
			statuses = append(statuses, st)
		}
	}
	return statuses
}
