package gridastar

import "errors"

var (
	// ErrInvalidRequest is returned before any state is touched when the
	// start or end of a search is missing, out of bounds, identical or blocked.
	ErrInvalidRequest = errors.New("invalid search request")

	// ErrInternalConsistency means a search invariant broke: a predecessor
	// chain that does not lead back to the start, or a closed cell offered a
	// cheaper cost. The run is aborted rather than return a wrong path.
	ErrInternalConsistency = errors.New("internal consistency violation")

	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	ErrOutOfBounds       = errors.New("coordinate out of bounds")

	// ErrEndpointRejected is returned by SetStart and SetEnd.
	ErrEndpointRejected = errors.New("endpoint rejected")

	ErrMalformedMap = errors.New("malformed map")
)
