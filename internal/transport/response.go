package transport

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Response is a completed HTTP exchange: status code plus raw body.
// Classification helpers read the body lazily via gjson so the
// transport stays independent of per-endpoint response schemas.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Success reports the application-level success flag in the body.
// A missing flag reads as false.
func (r *Response) Success() bool {
	return gjson.GetBytes(r.Body, "success").Bool()
}

// ErrorMessage returns the body's error string, or a placeholder when
// the body carries none.
func (r *Response) ErrorMessage() string {
	if msg := gjson.GetBytes(r.Body, "error").String(); msg != "" {
		return msg
	}
	return "unknown error"
}

// ValidationError is one row-level rejection reported by the service.
type ValidationError struct {
	Row    int64
	Errors string
}

// ValidationErrors extracts up to limit row-level validation errors
// from the body.
func (r *Response) ValidationErrors(limit int) []ValidationError {
	var out []ValidationError
	gjson.GetBytes(r.Body, "validation_errors").ForEach(func(_, v gjson.Result) bool {
		if len(out) >= limit {
			return false
		}
		out = append(out, ValidationError{
			Row:    v.Get("row").Int(),
			Errors: v.Get("errors").String(),
		})
		return true
	})
	return out
}

// TableCounts returns the per-table records_processed reconciliation
// from a bulk-sync response body.
func (r *Response) TableCounts() map[string]int {
	counts := make(map[string]int)
	gjson.GetBytes(r.Body, "results").ForEach(func(key, v gjson.Result) bool {
		counts[key.String()] = int(v.Get("records_processed").Int())
		return true
	})
	return counts
}

// TotalRecords returns the body's total_records field.
func (r *Response) TotalRecords() int {
	return int(gjson.GetBytes(r.Body, "total_records").Int())
}

// TablesProcessed returns the body's tables_processed field.
func (r *Response) TablesProcessed() int {
	return int(gjson.GetBytes(r.Body, "tables_processed").Int())
}

func (r *Response) String() string {
	return fmt.Sprintf("status=%d bytes=%d", r.StatusCode, len(r.Body))
}
