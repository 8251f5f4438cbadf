package transport

import "time"

// Timeouts holds the per-path request timeout policy.
//
// The bulk path scales its timeout with data volume so large transfers
// are not cut off prematurely while small ones stay responsive. The
// legacy path uses a fixed per-batch timeout since batches are capped
// at a bounded size. The session reset gets a short fixed budget.
type Timeouts struct {
	BulkFloor       time.Duration
	BulkPerThousand time.Duration
	Batch           time.Duration
	Reset           time.Duration
}

// DefaultTimeouts returns the deployed service's timeout policy.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		BulkFloor:       300 * time.Second,
		BulkPerThousand: 10 * time.Second,
		Batch:           180 * time.Second,
		Reset:           30 * time.Second,
	}
}

// Bulk computes the volume-scaled bulk timeout:
// max(BulkFloor, totalRecords/1000 × BulkPerThousand).
func (t Timeouts) Bulk(totalRecords int) time.Duration {
	scaled := time.Duration(totalRecords/1000) * t.BulkPerThousand
	if scaled < t.BulkFloor {
		return t.BulkFloor
	}
	return scaled
}
