package record

import (
	"fmt"
	"strings"
)

// Column describes one projected column of a source table. Rename, when
// set, is the field name used on the wire instead of the column name.
type Column struct {
	Name   string
	Rename string
}

// FieldName returns the wire-format field name for the column.
func (c Column) FieldName() string {
	if c.Rename != "" {
		return c.Rename
	}
	return c.Name
}

// Schema is the fixed projection for one source table. The set of
// synced tables is statically known; records that do not match their
// schema exactly are rejected at the codec boundary.
type Schema struct {
	Name    string
	Columns []Column
}

// Query renders the extraction query for the table.
func (s Schema) Query() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = `"` + c.Name + `"`
	}
	return fmt.Sprintf(`SELECT %s FROM "%s"`, strings.Join(cols, ", "), s.Name)
}

// FieldNames returns the wire field names in column order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.FieldName()
	}
	return names
}

// Validate checks that a record carries exactly the schema's fields, in
// column order. Unknown and missing fields are both errors.
func (s Schema) Validate(r Record) error {
	if len(r) != len(s.Columns) {
		return fmt.Errorf("record: table %s: expected %d fields, got %d",
			s.Name, len(s.Columns), len(r))
	}
	for i, c := range s.Columns {
		if r[i].Name != c.FieldName() {
			return fmt.Errorf("record: table %s: field %d is %q, expected %q",
				s.Name, i, r[i].Name, c.FieldName())
		}
	}
	return nil
}

// Tables returns the schemas of the synced tables in declared sync
// order. The acc_users "pass" column is renamed to "pass_field" on the
// wire because "pass" collides with a reserved word on the ingestion
// side.
func Tables() []Schema {
	return []Schema{
		{
			Name: "acc_users",
			Columns: []Column{
				{Name: "id"},
				{Name: "pass", Rename: "pass_field"},
			},
		},
		{
			Name: "personel",
			Columns: []Column{
				{Name: "admission"},
				{Name: "name"},
			},
		},
		{
			Name: "mag_subject",
			Columns: []Column{
				{Name: "code"},
				{Name: "name"},
			},
		},
		{
			Name: "cce_assessmentitems",
			Columns: []Column{
				{Name: "code"},
				{Name: "name"},
			},
		},
		{
			Name: "cce_entry",
			Columns: []Column{
				{Name: "slno"},
				{Name: "admission"},
				{Name: "class"},
				{Name: "division"},
				{Name: "subject"},
				{Name: "assessmentitem"},
				{Name: "term"},
				{Name: "part"},
				{Name: "yearcode"},
				{Name: "edate"},
				{Name: "mark"},
				{Name: "teacher"},
				{Name: "sortorder"},
				{Name: "maxmark"},
				{Name: "subperiod"},
				{Name: "indicator"},
				{Name: "element"},
				{Name: "grade"},
				{Name: "groupmark"},
				{Name: "groupper"},
				{Name: "particulars"},
				{Name: "elementgrade"},
				{Name: "longdescription"},
			},
		},
	}
}

// SchemaFor looks up the schema for a table name.
func SchemaFor(name string) (Schema, bool) {
	for _, s := range Tables() {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}
