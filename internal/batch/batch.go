// Package batch splits a table's records into bounded, positionally
// ordered slices for the chunked fallback transfer path.
package batch

import (
	"errors"

	"github.com/safaedu/schoolsync/internal/record"
)

// ErrInvalidSize is returned when the configured chunk size is not
// positive. This is a configuration error and must surface before any
// network activity.
var ErrInvalidSize = errors.New("batch: chunk size must be positive")

// Batch is a contiguous slice of one table's records. Index is the
// zero-based position within the table's batch sequence, Count the
// total number of batches for the table.
type Batch struct {
	Records []record.Record
	Index   int
	Count   int
}

// First reports whether this is the table's first batch.
func (b Batch) First() bool { return b.Index == 0 }

// Last reports whether this is the table's last batch.
func (b Batch) Last() bool { return b.Index == b.Count-1 }

// Chunk splits records into batches of at most size records each.
// Boundaries are purely positional: concatenating the batches in order
// reproduces the input exactly, and only the last batch may be short.
func Chunk(records []record.Record, size int) ([]Batch, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if len(records) == 0 {
		return nil, nil
	}

	count := (len(records) + size - 1) / size
	batches := make([]Batch, 0, count)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, Batch{
			Records: records[start:end],
			Index:   len(batches),
			Count:   count,
		})
	}
	return batches, nil
}
