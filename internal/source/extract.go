package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/safaedu/schoolsync/internal/record"
)

// ErrExtraction marks a per-table query failure. The table is treated
// as empty and the run continues; the error is carried in the report.
var ErrExtraction = errors.New("source: extraction failed")

// Report is the outcome of one extraction pass: every synced table in
// declared order (failed tables present but empty) plus the per-table
// errors encountered.
type Report struct {
	Tables []record.Table
	Errors map[string]error
}

// Total returns the record count across all extracted tables.
func (r *Report) Total() int {
	return record.TotalRecords(r.Tables)
}

// Extractor pulls the fixed set of synced tables out of the store.
type Extractor struct {
	store  *Store
	logger *slog.Logger
}

// NewExtractor creates an extractor over the given store.
func NewExtractor(store *Store, logger *slog.Logger) *Extractor {
	return &Extractor{store: store, logger: logger}
}

// ExtractAll runs every table's projection query in declared sync
// order and holds the results fully in memory. A failing query logs an
// error and yields an empty table rather than aborting the pass.
func (e *Extractor) ExtractAll(ctx context.Context) *Report {
	report := &Report{Errors: make(map[string]error)}

	for _, schema := range record.Tables() {
		records, err := e.extractTable(ctx, schema)
		if err != nil {
			e.logger.Error("table extraction failed",
				"table", schema.Name,
				"error", err)
			report.Errors[schema.Name] = fmt.Errorf("%w: table %s: %v", ErrExtraction, schema.Name, err)
			records = nil
		} else {
			e.logger.Info("table extracted",
				"table", schema.Name,
				"records", len(records))
		}
		report.Tables = append(report.Tables, record.Table{
			Name:    schema.Name,
			Records: records,
		})
	}

	e.logger.Info("extraction complete",
		"tables", len(report.Tables),
		"total_records", report.Total(),
		"failed_tables", len(report.Errors))
	return report
}

// extractTable runs one table's projection and shapes rows into
// records, preserving column order and applying the schema's renames.
func (e *Extractor) extractTable(ctx context.Context, schema record.Schema) ([]record.Record, error) {
	rows, err := e.store.QueryContext(ctx, schema.Query())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldNames := schema.FieldNames()
	var records []record.Record
	for rows.Next() {
		raw := make([]interface{}, len(fieldNames))
		dest := make([]interface{}, len(fieldNames))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rec := make(record.Record, len(fieldNames))
		for i, name := range fieldNames {
			value, err := record.FromDriver(raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", schema.Columns[i].Name, err)
			}
			rec[i] = record.Field{Name: name, Value: value}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
