package report

import (
	"context"
	"fmt"
	"io"

	"github.com/simaogato/stockwalk/internal/domain"
)

// Averager computes the average closing price of an instrument
type Averager interface {
	Average(ctx context.Context, code string) (float64, error)
}

// Line is one row of the averages report
type Line struct {
	Code    string
	Name    string
	Average float64
}

// ReportService builds the per-instrument averages report
type ReportService struct {
	Registry domain.StockRegistry
	Averager Averager
}

// NewReportService creates a new ReportService instance
func NewReportService(registry domain.StockRegistry, averager Averager) *ReportService {
	return &ReportService{
		Registry: registry,
		Averager: averager,
	}
}

// Averages returns one line per loaded instrument, in load order
// Any failing instrument aborts the report
func (s *ReportService) Averages(ctx context.Context) ([]Line, error) {
	instruments := s.Registry.All()

	lines := make([]Line, 0, len(instruments))
	for _, inst := range instruments {
		avg, err := s.Averager.Average(ctx, inst.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to compute average for %s: %w", inst.Code, err)
		}
		lines = append(lines, Line{
			Code:    inst.Code,
			Name:    inst.Name,
			Average: avg,
		})
	}

	return lines, nil
}

// Write prints the report, two lines per instrument
func Write(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "stock.code = %s\naverage = %v\n", l.Code, l.Average); err != nil {
			return err
		}
	}
	return nil
}
