package analytics

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is a soft skip: the product does not have enough
// history for the calculation. It is an expected steady-state condition,
// not a fault, and callers treat it as "no opinion".
var ErrInsufficientData = errors.New("insufficient purchase history")

// ErrPersistenceConflict surfaces a dedup race on recommendation upsert
// that survived one retry.
var ErrPersistenceConflict = errors.New("recommendation upsert conflict")

// ResolutionError means the normalized-name uniqueness invariant is
// violated: two catalog products share a matching key. The record is
// skipped and the condition logged; picking one silently would corrupt
// every downstream series.
type ResolutionError struct {
	NormalizedName string
	MatchCount     int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("product resolution: %d products share normalized name %q", e.MatchCount, e.NormalizedName)
}

// DetectorError wraps a single detector failure so one product's bad data
// cannot abort the pass for the rest.
type DetectorError struct {
	ProductId int
	Detector  string
	Err       error
}

func (e *DetectorError) Error() string {
	return fmt.Sprintf("detector %s failed for product %d: %v", e.Detector, e.ProductId, e.Err)
}

func (e *DetectorError) Unwrap() error {
	return e.Err
}
