package raysub

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/exp/rand"
)

// Options tune the subsampler.  Zero values fall back to package defaults so
// a partially filled config file behaves sensibly.
type Options struct {
	ThetaBins      int    `toml:"theta_bins"`
	PhiBins        int    `toml:"phi_bins"`
	FluxFloor      Real   `toml:"flux_floor"`
	ProgressStride int    `toml:"progress_stride"`
	Repeatable     bool   `toml:"repeatable"`
	Seed           uint64 `toml:"seed"`
}

// DefaultOptions returns the stock tuning: the 90x180 angular grid and the
// 1e-30 flux floor.
func DefaultOptions() Options {
	return Options{
		ThetaBins:      ThetaBins,
		PhiBins:        PhiBins,
		FluxFloor:      FluxFloor,
		ProgressStride: ProgressStride,
	}
}

// LoadOptions reads a TOML tuning file.
func LoadOptions(path string) (Options, error) {
	var o Options
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return Options{}, fmt.Errorf("load options: %w", err)
	}
	o.setDefaults()
	if err := o.validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o *Options) setDefaults() {
	if o.ThetaBins <= 0 {
		o.ThetaBins = ThetaBins
	}
	if o.PhiBins <= 0 {
		o.PhiBins = PhiBins
	}
	if o.FluxFloor == 0 {
		o.FluxFloor = FluxFloor
	}
	if o.ProgressStride <= 0 {
		o.ProgressStride = ProgressStride
	}
}

func (o Options) validate() error {
	if o.FluxFloor < 0 || !isFinite(o.FluxFloor) {
		return fmt.Errorf("flux floor must be finite and >= 0, got %g", o.FluxFloor)
	}
	return nil
}

// newRand builds the PCG source used by both sampling strategies.  Repeatable
// runs always seed from Options.Seed.
func (o Options) newRand() *rand.Rand {
	rng := rand.New(&rand.PCGSource{})
	if o.Repeatable {
		rng.Seed(o.Seed)
	} else {
		rng.Seed(uint64(time.Now().UnixNano()))
	}
	return rng
}
