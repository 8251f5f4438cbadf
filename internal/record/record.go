package record

import (
	"bytes"
	"encoding/json"
)

// Field is one named scalar within a record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered list of fields. Order follows the column order of
// the extraction query and is preserved through encoding, which keeps
// the wire payload byte-identical across runs over the same data.
type Record []Field

// Get returns the value for a field name.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// MarshalJSON encodes the record as a JSON object with fields in
// declaration order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is a named dataset: the records extracted for one source table.
// Populated once per run and read-only afterwards.
type Table struct {
	Name    string
	Records []Record
}

// Count returns the number of records in the table.
func (t Table) Count() int { return len(t.Records) }

// TotalRecords sums record counts across tables.
func TotalRecords(tables []Table) int {
	total := 0
	for _, t := range tables {
		total += t.Count()
	}
	return total
}
