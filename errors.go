package mulegraph

import "errors"

// Error taxonomy for the core engine. Detectors never return
// errors for a valid graph — an empty or non-matching window is "no
// candidates", not a failure. ErrInputValidation is raised only by
// transaction validation at the input boundary; the snapshot store returns
// its own wrapped errors, not these sentinels.
var (
	// ErrInputValidation indicates a malformed transaction reached the
	// engine boundary (propagated from the parser, never raised mid-pipeline).
	ErrInputValidation = errors.New("mulegraph: input validation")

	// ErrInternal indicates an invariant violation inside the engine itself.
	ErrInternal = errors.New("mulegraph: internal invariant violation")
)
