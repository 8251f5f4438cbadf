package record

import (
	"strings"
	"testing"
)

// =============================================================================
// Record Tests
// =============================================================================

// TestRecord_MarshalJSON_PreservesFieldOrder verifies fields encode in
// declaration order, not sorted.
func TestRecord_MarshalJSON_PreservesFieldOrder(t *testing.T) {
	r := Record{
		{Name: "zebra", Value: Int(1)},
		{Name: "apple", Value: Int(2)},
		{Name: "mango", Value: Null()},
	}

	got, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"zebra":1,"apple":2,"mango":null}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestRecord_MarshalJSON_Deterministic verifies identical input yields
// byte-identical output.
func TestRecord_MarshalJSON_Deterministic(t *testing.T) {
	r := Record{
		{Name: "a", Value: String("x")},
		{Name: "b", Value: Float(2.5)},
	}

	first, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := r.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("encoding not deterministic: %s vs %s", again, first)
		}
	}
}

// TestRecord_Get verifies field lookup by name.
func TestRecord_Get(t *testing.T) {
	r := Record{
		{Name: "id", Value: Int(9)},
	}

	v, ok := r.Get("id")
	if !ok || v.IntVal() != 9 {
		t.Errorf("expected to find id=9, got ok=%v v=%v", ok, v)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("expected missing field lookup to fail")
	}
}

// =============================================================================
// Schema Tests
// =============================================================================

// TestTables_DeclaredOrder verifies the synced tables and their order.
func TestTables_DeclaredOrder(t *testing.T) {
	want := []string{"acc_users", "personel", "mag_subject", "cce_assessmentitems", "cce_entry"}

	tables := Tables()
	if len(tables) != len(want) {
		t.Fatalf("expected %d tables, got %d", len(want), len(tables))
	}
	for i, name := range want {
		if tables[i].Name != name {
			t.Errorf("table %d: got %s, want %s", i, tables[i].Name, name)
		}
	}
}

// TestSchema_PassFieldRename verifies the acc_users "pass" column is
// renamed on the wire but queried under its real name.
func TestSchema_PassFieldRename(t *testing.T) {
	s, ok := SchemaFor("acc_users")
	if !ok {
		t.Fatal("acc_users schema missing")
	}

	names := s.FieldNames()
	if names[1] != "pass_field" {
		t.Errorf("wire field: got %s, want pass_field", names[1])
	}
	if !strings.Contains(s.Query(), `"pass"`) {
		t.Errorf("query should select the real column name: %s", s.Query())
	}
	if strings.Contains(s.Query(), "pass_field") {
		t.Errorf("query should not mention the wire name: %s", s.Query())
	}
}

// TestSchema_Query verifies query rendering with quoted identifiers.
func TestSchema_Query(t *testing.T) {
	s, _ := SchemaFor("personel")
	want := `SELECT "admission", "name" FROM "personel"`
	if s.Query() != want {
		t.Errorf("got %s, want %s", s.Query(), want)
	}
}

// TestSchema_Validate verifies exact-match field validation.
func TestSchema_Validate(t *testing.T) {
	s, _ := SchemaFor("personel")

	valid := Record{
		{Name: "admission", Value: String("A1")},
		{Name: "name", Value: String("n")},
	}
	if err := s.Validate(valid); err != nil {
		t.Errorf("unexpected error for valid record: %v", err)
	}

	missing := Record{
		{Name: "admission", Value: String("A1")},
	}
	if err := s.Validate(missing); err == nil {
		t.Error("expected error for missing field")
	}

	unknown := Record{
		{Name: "admission", Value: String("A1")},
		{Name: "surname", Value: String("n")},
	}
	if err := s.Validate(unknown); err == nil {
		t.Error("expected error for unknown field")
	}
}

// TestSchema_CCEEntryColumns verifies the widest table's projection size.
func TestSchema_CCEEntryColumns(t *testing.T) {
	s, ok := SchemaFor("cce_entry")
	if !ok {
		t.Fatal("cce_entry schema missing")
	}
	if len(s.Columns) != 23 {
		t.Errorf("expected 23 columns, got %d", len(s.Columns))
	}
}
