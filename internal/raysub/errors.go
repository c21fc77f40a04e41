package raysub

import "errors"

// Error identities for everything that can abort an operation.  Call sites
// wrap these with the offending value so messages stay human-readable while
// errors.Is keeps working.
var (
	ErrTruncatedHeader     = errors.New("file too small to contain valid header")
	ErrUnknownIdentifier   = errors.New("incorrect file identifier")
	ErrUnknownFormatType   = errors.New("incorrect file format identifier")
	ErrUnknownFluxType     = errors.New("incorrect flux type identifier")
	ErrUnexpectedEndOfRays = errors.New("unexpected EOF in ray data")
	ErrNoHeaderFound       = errors.New("no header line found")
	ErrInsufficientRays    = errors.New("not enough rays")
	ErrInvalidNumericField = errors.New("invalid numeric field")
	ErrUnsupportedInput    = errors.New("binary .dat not supported for subsampling, convert to ASCII .txt first")
)
