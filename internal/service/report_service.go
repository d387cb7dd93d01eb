package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// ErrInvalidTimeframe marks an unknown report timeframe.
var ErrInvalidTimeframe = errors.New("invalid timeframe")

// Timeframe selects the report window.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeYearly  Timeframe = "yearly"
)

// since returns the start of the current day, month or year.
func (t Timeframe) since(now time.Time) (time.Time, error) {
	switch t {
	case TimeframeDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case TimeframeMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case TimeframeYearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, ErrInvalidTimeframe
	}
}

// ReportFilter narrows a report to a status or priority; empty fields
// match everything.
type ReportFilter struct {
	Status   domain.ComplaintStatus
	Priority domain.ComplaintPriority
}

// Report aggregates complaints over a timeframe.
type Report struct {
	Timeframe  Timeframe                        `json:"timeframe"`
	Since      time.Time                        `json:"since"`
	Total      int                              `json:"total"`
	ByStatus   map[domain.ComplaintStatus]int   `json:"byStatus"`
	ByPriority map[domain.ComplaintPriority]int `json:"byPriority"`
	Complaints []domain.Complaint               `json:"complaints"`
}

// Summary holds complaint counts across the three standard windows.
type Summary struct {
	Daily   int64 `json:"daily"`
	Monthly int64 `json:"monthly"`
	Yearly  int64 `json:"yearly"`
}

// ReportService produces complaint statistics and CSV exports for
// administrators.
type ReportService struct {
	complaints repository.ComplaintRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService builds the service.
func NewReportService(complaints repository.ComplaintRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		complaints: complaints,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate builds a report for the timeframe, optionally filtered.
func (s *ReportService) Generate(ctx context.Context, timeframe Timeframe, filter ReportFilter) (*Report, error) {
	since, err := timeframe.since(s.now())
	if err != nil {
		return nil, err
	}

	complaints, err := s.complaints.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Timeframe:  timeframe,
		Since:      since,
		ByStatus:   make(map[domain.ComplaintStatus]int),
		ByPriority: make(map[domain.ComplaintPriority]int),
		Complaints: make([]domain.Complaint, 0, len(complaints)),
	}
	for _, c := range complaints {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && c.Priority != filter.Priority {
			continue
		}
		report.Complaints = append(report.Complaints, c)
		report.ByStatus[c.Status]++
		report.ByPriority[c.Priority]++
	}
	report.Total = len(report.Complaints)
	return report, nil
}

// Summarize counts complaints filed so far this day, month and year.
func (s *ReportService) Summarize(ctx context.Context) (*Summary, error) {
	now := s.now()

	dailySince, _ := TimeframeDaily.since(now)
	monthlySince, _ := TimeframeMonthly.since(now)
	yearlySince, _ := TimeframeYearly.since(now)

	daily, err := s.complaints.CountSince(ctx, dailySince)
	if err != nil {
		return nil, err
	}
	monthly, err := s.complaints.CountSince(ctx, monthlySince)
	if err != nil {
		return nil, err
	}
	yearly, err := s.complaints.CountSince(ctx, yearlySince)
	if err != nil {
		return nil, err
	}

	return &Summary{Daily: daily, Monthly: monthly, Yearly: yearly}, nil
}

// ExportCSV renders the timeframe's complaints as a CSV document.
func (s *ReportService) ExportCSV(ctx context.Context, timeframe Timeframe) ([]byte, error) {
	report, err := s.Generate(ctx, timeframe, ReportFilter{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Subject", "Status", "Priority", "Created At", "Assigned To"}); err != nil {
		return nil, err
	}
	for _, c := range report.Complaints {
		assignedTo := ""
		if c.AssignedTo != nil {
			assignedTo = *c.AssignedTo
		}
		record := []string{
			c.Subject,
			string(c.Status),
			string(c.Priority),
			c.CreatedAt.Format(time.RFC3339),
			assignedTo,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
