package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rogerio-castellano/inventory-cli/internal/coerce"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"go.uber.org/zap"
)

// Input CSV columns.
const (
	ColumnName     = "product_name"
	ColumnQuantity = "product_quantity"
	ColumnPrice    = "product_price"
	ColumnDate     = "date_updated"
	ColumnID       = "product_id"
)

// LoadReport summarises one CSV load.
type LoadReport struct {
	Rows     int
	Inserted int
	Updated  int
	Skipped  int
	// Coerced counts admitted rows where at least one field fell back to its default.
	Coerced int
	// Unnamed counts rows dropped because the product name was blank.
	Unnamed int
}

func (r *LoadReport) add(o Outcome) {
	switch o {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	}
}

// LoadFile reconciles every row of the CSV file at path.
func (s *Service) LoadFile(ctx context.Context, path string) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("open inventory csv: %w", err)
	}
	defer f.Close()
	return s.LoadCSV(ctx, f)
}

// LoadCSV coerces and reconciles every data row read from r.
func (s *Service) LoadCSV(ctx context.Context, r io.Reader) (LoadReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return LoadReport{}, fmt.Errorf("invalid CSV header: %w", err)
	}
	index, err := headerIndex(headers, ColumnName, ColumnQuantity, ColumnPrice, ColumnDate)
	if err != nil {
		return LoadReport{}, err
	}

	var report LoadReport
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("CSV read error: %w", err)
		}
		report.Rows++

		p, problems := s.productFromRecord(record, index)
		if p.Name == "" {
			report.Unnamed++
			s.log.Warn("skipping row without product name", zap.Int("line", line))
			continue
		}
		if len(problems) > 0 {
			report.Coerced++
			s.log.Warn("row admitted with default values",
				zap.Int("line", line),
				zap.String("name", p.Name),
				zap.Strings("fields", problems),
			)
		}

		outcome, err := s.Reconcile(ctx, p)
		if err != nil {
			return report, fmt.Errorf("line %d: %w", line, err)
		}
		report.add(outcome)
	}

	s.log.Info("inventory loaded",
		zap.Int("rows", report.Rows),
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("coerced", report.Coerced),
	)
	return report, nil
}

// productFromRecord applies the lenient coercions and names the fields that fell back.
func (s *Service) productFromRecord(record []string, index map[string]int) (models.Product, []string) {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var problems []string
	p := models.Product{Name: strings.TrimSpace(field(ColumnName))}

	if q, err := coerce.ParseInt(field(ColumnQuantity)); err == nil {
		p.Quantity = q
	} else {
		problems = append(problems, ColumnQuantity)
	}
	if c, err := coerce.ParsePrice(field(ColumnPrice)); err == nil {
		p.Price = c
	} else {
		problems = append(problems, ColumnPrice)
	}
	if d, err := coerce.ParseDate(field(ColumnDate)); err == nil {
		p.UpdatedAt = d
	} else {
		p.UpdatedAt = coerce.Today(s.now)
		problems = append(problems, ColumnDate)
	}
	return p, problems
}

func headerIndex(headers []string, required ...string) (map[string]int, error) {
	index := map[string]int{}
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[h] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("invalid CSV header: missing %s", strings.Join(missing, ", "))
	}
	return index, nil
}
