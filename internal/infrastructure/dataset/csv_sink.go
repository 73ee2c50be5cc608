package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
)

// Compile-time interface check.
var _ port.TrainingRowSink = (*CSVSink)(nil)

// CSVSink appends one training row per assessment to a CSV file: the feature
// vector in declared order, then risk_score and risk_level.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

// NewCSVSink creates a sink writing to path. The file is created on first append.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Header returns the column names of a training row.
func Header() []string {
	header := make([]string, 0, model.FeatureCount+2)
	header = append(header, model.FeatureNames...)
	return append(header, "risk_score", "risk_level")
}

// Append writes a row for a, writing the header first when the file is new or empty.
func (s *CSVSink) Append(ctx context.Context, a *model.MessageAssessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.Features().Len() != model.FeatureCount {
		return fmt.Errorf("assessment %s has no feature vector", a.ID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open training csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat training csv: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header()); err != nil {
			return fmt.Errorf("write training csv header: %w", err)
		}
	}
	if err := w.Write(row(a)); err != nil {
		return fmt.Errorf("write training csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush training csv: %w", err)
	}
	return nil
}

func row(a *model.MessageAssessment) []string {
	values := a.Features().Values()
	out := make([]string, 0, len(values)+2)
	for _, v := range values {
		out = append(out, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return append(out, strconv.Itoa(a.RiskScore()), a.RiskLevel().String())
}
