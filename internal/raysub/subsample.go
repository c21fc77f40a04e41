package raysub

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/exp/rand"
)

// OutputFormat selects the encoding of a subsampled ray set.
type OutputFormat int

const (
	FormatAscii    OutputFormat = iota // native ASCII .txt
	FormatTracePro                     // TracePro-style ASCII .dat
	FormatBinary                       // native binary .dat
)

// ParseFormat maps a CLI format name to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "txt", "ascii":
		return FormatAscii, nil
	case "tracepro":
		return FormatTracePro, nil
	case "dat", "binary":
		return FormatBinary, nil
	}
	return 0, fmt.Errorf("unknown output format %q", s)
}

// Method selects the sampling strategy.
type Method int

const (
	MethodRandom Method = iota
	MethodAngularStratified
)

// ParseMethod maps a CLI method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "random":
		return MethodRandom, nil
	case "angular", "stratified", "angular_stratified":
		return MethodAngularStratified, nil
	}
	return 0, fmt.Errorf("unknown sampling method %q", s)
}

// Phase tracks a subsample run through its stages.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoaded
	PhaseSampled
	PhaseScaled
	PhaseWritten
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoaded:
		return "loaded"
	case PhaseSampled:
		return "sampled"
	case PhaseScaled:
		return "scaled"
	case PhaseWritten:
		return "written"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Subsampler carries one subsample-and-write unit of work.  It owns its
// random source and has no shared state, so concurrent runs need one
// Subsampler each.
type Subsampler struct {
	opts  Options
	obs   Observer
	rng   *rand.Rand
	phase Phase
}

// NewSubsampler builds a Subsampler with the given tuning.  A nil observer
// discards notifications.
func NewSubsampler(opts Options, obs Observer) *Subsampler {
	opts.setDefaults()
	if obs == nil {
		obs = NopObserver
	}
	return &Subsampler{opts: opts, obs: obs, rng: opts.newRand(), phase: PhaseIdle}
}

// Phase returns the stage the last Run reached.
func (s *Subsampler) Phase() Phase { return s.phase }

// Run reduces the ASCII ray file at inputPath to exactly targetRays rays,
// rescales flux so the aggregate is preserved, and writes outputPath in the
// requested format.  The first error aborts the run and leaves any partially
// written output on disk.
func (s *Subsampler) Run(inputPath string, targetRays int, outputPath string, format OutputFormat, method Method) error {
	s.phase = PhaseIdle
	if err := s.run(inputPath, targetRays, outputPath, format, method); err != nil {
		s.phase = PhaseFailed
		return err
	}
	return nil
}

func (s *Subsampler) run(inputPath string, targetRays int, outputPath string, format OutputFormat, method Method) error {
	if targetRays <= 0 {
		return fmt.Errorf("target rays must be positive, got %d", targetRays)
	}
	s.obs.Progress(0)
	s.obs.Status("Loading file...")
	if isBinaryPath(inputPath) {
		return fmt.Errorf("%w: %s", ErrUnsupportedInput, inputPath)
	}

	set, err := LoadAscii(inputPath, s.obs, s.opts.ProgressStride)
	if err != nil {
		return err
	}
	s.phase = PhaseLoaded
	if set.Skipped > 0 {
		s.obs.Status(fmt.Sprintf("Skipped %d non-standard ray lines", set.Skipped))
	}
	if len(set.Rays) < targetRays {
		return fmt.Errorf("%w: file has only %d rays", ErrInsufficientRays, len(set.Rays))
	}

	s.obs.Status("Subsampling...")
	s.obs.Progress(50)
	var picked []int
	switch method {
	case MethodRandom:
		picked = samplePrefix(s.rng, identityIndices(len(set.Rays)), targetRays)
	case MethodAngularStratified:
		picked = s.sampleStratified(set.Rays, targetRays)
	default:
		return fmt.Errorf("unknown sampling method %d", method)
	}
	s.phase = PhaseSampled

	s.obs.Status("Scaling fluxes...")
	scale := FluxScale(set.NumRays, targetRays)
	out := make([]RayRecord, len(picked))
	for i, idx := range picked {
		if i%s.opts.ProgressStride == 0 {
			s.obs.Progress(50 + i*10/imax(1, targetRays))
		}
		rr := set.Rays[idx]
		rr.Flux = SanitizeFlux(rr.Flux*scale, s.opts.FluxFloor)
		out[i] = rr
	}
	s.phase = PhaseScaled

	s.obs.Status("Saving file...")
	s.obs.Progress(60)
	if err := s.writeOutput(inputPath, outputPath, format, set, out); err != nil {
		return err
	}
	s.phase = PhaseWritten

	s.obs.Progress(100)
	s.obs.Status("Done!")
	s.phase = PhaseDone
	return nil
}

// isBinaryPath recognizes the binary ray-file extension.  Binary inputs must
// go through Convert first.
func isBinaryPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".dat")
}

func identityIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// samplePrefix uniformly samples k elements without replacement by partially
// shuffling pool in place; the result aliases pool's first k slots.
func samplePrefix(rng *rand.Rand, pool []int, k int) []int {
	if k > len(pool) {
		k = len(pool)
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
