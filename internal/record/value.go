package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindDate
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	case KindDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar as extracted from the source database.
// Decimals keep full precision until encoding, where they are converted
// to float64 (documented lossy conversion). Dates and timestamps encode
// as ISO-8601 strings.
type Value struct {
	kind Kind
	str  string
	i64  int64
	f64  float64
	b    bool
	t    time.Time
	dec  decimal.Decimal
}

func Null() Value                     { return Value{kind: KindNull} }
func String(s string) Value           { return Value{kind: KindString, str: s} }
func Int(i int64) Value               { return Value{kind: KindInt, i64: i} }
func Float(f float64) Value           { return Value{kind: KindFloat, f64: f} }
func Bool(b bool) Value               { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value          { return Value{kind: KindTime, t: t} }
func Date(t time.Time) Value          { return Value{kind: KindDate, t: t} }
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }

// Kind returns the scalar type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the SQL NULL scalar.
func (v Value) IsNull() bool { return v.kind == KindNull }

// StringVal returns the string payload. Valid only for KindString.
func (v Value) StringVal() string { return v.str }

// IntVal returns the integer payload. Valid only for KindInt.
func (v Value) IntVal() int64 { return v.i64 }

// FloatVal returns the float payload. Valid only for KindFloat.
func (v Value) FloatVal() float64 { return v.f64 }

// BoolVal returns the bool payload. Valid only for KindBool.
func (v Value) BoolVal() bool { return v.b }

// TimeVal returns the time payload. Valid for KindTime and KindDate.
func (v Value) TimeVal() time.Time { return v.t }

// DecimalVal returns the decimal payload. Valid only for KindDecimal.
func (v Value) DecimalVal() decimal.Decimal { return v.dec }

// Wire formats for date/time scalars. These match the ISO-8601 forms
// the ingestion service accepts.
const (
	timeWireFormat = "2006-01-02T15:04:05"
	dateWireFormat = "2006-01-02"
)

// MarshalJSON renders the value in its wire form. Decimals become
// float64, the one deliberately lossy conversion in the codec.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return []byte(strconv.FormatInt(v.i64, 10)), nil
	case KindFloat:
		return json.Marshal(v.f64)
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindTime:
		return []byte(`"` + v.t.Format(timeWireFormat) + `"`), nil
	case KindDate:
		return []byte(`"` + v.t.Format(dateWireFormat) + `"`), nil
	case KindDecimal:
		f, _ := v.dec.Float64()
		return json.Marshal(f)
	default:
		return nil, fmt.Errorf("record: cannot encode value of kind %s", v.kind)
	}
}

// FromDriver converts a database/sql scan result into a Value.
// Unsupported driver types are an error rather than a silent drop, so a
// schema change in the source surfaces immediately.
func FromDriver(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(x), nil
	case []byte:
		return String(string(x)), nil
	case int64:
		return Int(x), nil
	case int:
		return Int(int64(x)), nil
	case float64:
		return Float(x), nil
	case bool:
		return Bool(x), nil
	case time.Time:
		return Time(x), nil
	case decimal.Decimal:
		return Decimal(x), nil
	default:
		return Value{}, fmt.Errorf("record: unsupported driver value of type %T", raw)
	}
}
