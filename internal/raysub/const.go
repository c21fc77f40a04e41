package raysub

// Tunable defaults; overridable per run through Options.
const (
	ThetaBins      = 90    // polar-angle bins over [0, pi]
	PhiBins        = 180   // azimuth bins over [0, 2*pi)
	FluxFloor      = 1e-30 // replacement for non-finite or non-positive flux
	ProgressStride = 10_000
	// hot-loop constant for direction normalization
	dirEps = 1e-12
)

// Accepted binary ray-file identifiers.  Output always carries identCurrent.
const (
	identLegacy  = 1010
	identCurrent = 8675309
)

const descriptionLen = 100

// Description stamped into every binary header this tool writes.
const outputDescription = "Subsampled LUXEON Z ray file"
