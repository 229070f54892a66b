package profile

import "errors"

// Error taxonomy for the pipeline. Every one of these is fatal to the whole
// run: the dataset is all-or-nothing.
var (
	// ErrMalformedSource means an extracted value did not match the shape
	// the source site is supposed to produce.
	ErrMalformedSource = errors.New("malformed source data")

	// ErrDanglingReference means a record referenced an entity that was
	// never extracted, violating the two-pass invariant.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrSchema means a finalized record violated its declared field set,
	// URL shape, or a uniqueness constraint.
	ErrSchema = errors.New("schema violation")
)
