// Package payload builds and encodes the wire payloads sent to the
// ingestion service: one all-tables payload for the bulk path and
// per-batch payloads for the legacy path.
//
// Encoding is deterministic: tables appear in declared sync order and
// record fields in column order, so identical input yields byte-identical
// output. Records are validated against their table schema at this
// boundary; an unknown or missing field rejects the run rather than
// shipping a malformed payload.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/safaedu/schoolsync/internal/batch"
	"github.com/safaedu/schoolsync/internal/record"
)

// syncTimestampFormat is the ISO-8601 form used for the payload's
// generation timestamp.
const syncTimestampFormat = "2006-01-02T15:04:05"

// BulkPayload is the single-request payload carrying every table's full
// record list. Immutable once constructed; TotalRecords always equals
// the sum of per-table record counts.
type BulkPayload struct {
	database  string
	tables    []record.Table
	total     int
	timestamp time.Time
}

// NewBulkPayload assembles the bulk payload. Tables with zero records
// are kept (as empty lists) so the server-side record count contract
// stays exact.
func NewBulkPayload(database string, tables []record.Table, now time.Time) *BulkPayload {
	return &BulkPayload{
		database:  database,
		tables:    tables,
		total:     record.TotalRecords(tables),
		timestamp: now,
	}
}

// TotalRecords returns the record count across all tables.
func (p *BulkPayload) TotalRecords() int { return p.total }

// Encode renders the payload as JSON:
//
//	{"database": ..., "tables": {name: [record, ...]}, "total_records": N, "sync_timestamp": ...}
func (p *BulkPayload) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"database":`)
	if err := writeJSON(&buf, p.database); err != nil {
		return nil, err
	}
	buf.WriteString(`,"tables":{`)
	for i, t := range p.tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, t.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeRecords(&buf, t.Name, t.Records); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`},"total_records":`)
	fmt.Fprintf(&buf, "%d", p.total)
	buf.WriteString(`,"sync_timestamp":"`)
	buf.WriteString(p.timestamp.Format(syncTimestampFormat))
	buf.WriteString(`"}`)
	return buf.Bytes(), nil
}

// BatchPayload is one legacy-path request: a single batch of one
// table's records plus its positional flags.
type BatchPayload struct {
	database string
	table    string
	batch    batch.Batch
}

// NewBatchPayload assembles a legacy-path payload for one batch.
func NewBatchPayload(database, table string, b batch.Batch) *BatchPayload {
	return &BatchPayload{database: database, table: table, batch: b}
}

// Encode renders the batch payload as JSON:
//
//	{"database": ..., "table": ..., "data": [record, ...], "is_first_batch": b, "is_last_batch": b}
func (p *BatchPayload) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"database":`)
	if err := writeJSON(&buf, p.database); err != nil {
		return nil, err
	}
	buf.WriteString(`,"table":`)
	if err := writeJSON(&buf, p.table); err != nil {
		return nil, err
	}
	buf.WriteString(`,"data":`)
	if err := writeRecords(&buf, p.table, p.batch.Records); err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, `,"is_first_batch":%t,"is_last_batch":%t}`, p.batch.First(), p.batch.Last())
	return buf.Bytes(), nil
}

// writeRecords encodes a record list, validating each record against
// the table's schema first.
func writeRecords(buf *bytes.Buffer, table string, records []record.Record) error {
	schema, ok := record.SchemaFor(table)
	if !ok {
		return fmt.Errorf("payload: unknown table %q", table)
	}
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := schema.Validate(r); err != nil {
			return fmt.Errorf("payload: record %d: %w", i, err)
		}
		b, err := r.MarshalJSON()
		if err != nil {
			return fmt.Errorf("payload: table %s record %d: %w", table, i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return nil
}

func writeJSON(buf *bytes.Buffer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
