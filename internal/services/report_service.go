package services

import (
	"dealdesk/internal/lifecycle"
	"dealdesk/internal/models"
	"dealdesk/internal/repositories"
)

// DealSummary is the /reports/summary payload.
type DealSummary struct {
	ByStatus map[string]int `json:"by_status"`
	Open     int            `json:"open"`
	Signed   int            `json:"signed"`
	Lost     int            `json:"lost"`
	Total    int            `json:"total"`
}

type ReportService struct {
	Deals *repositories.DealRepository
}

func NewReportService(deals *repositories.DealRepository) *ReportService {
	return &ReportService{Deals: deals}
}

func (s *ReportService) Summary() (*DealSummary, error) {
	counts, err := s.Deals.CountByStatus()
	if err != nil {
		return nil, err
	}

	summary := &DealSummary{ByStatus: counts}
	for status, n := range counts {
		summary.Total += n
		switch {
		case status == string(lifecycle.StatusSigned):
			summary.Signed += n
		case status == string(lifecycle.StatusLost):
			summary.Lost += n
		default:
			summary.Open += n
		}
	}
	return summary, nil
}

func (s *ReportService) FilterDeals(status, fromDate, toDate, sortBy, order string, revenueMin, revenueMax float64, limit, offset int) ([]*models.Deal, error) {
	return s.Deals.FilterDeals(status, fromDate, toDate, sortBy, order, revenueMin, revenueMax, limit, offset)
}
