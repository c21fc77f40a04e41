package raysub

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// angularBin is one cell of the theta x phi grid: the indices of the rays
// whose normalized direction falls inside it, the accumulated non-negative
// flux of those rays, and the sample quota assigned to the cell.
type angularBin struct {
	ti, pj int
	rays   []int
	flux   Real
	quota  int
}

// sampleStratified picks target ray indices so the angular/flux structure of
// the input survives aggressive downsampling.  Rays are binned by direction,
// quotas are allocated per bin proportional to flux (counts when the set
// carries no flux), reconciled to sum exactly to target, and sampled
// uniformly inside each bin.
func (s *Subsampler) sampleStratified(rays []RayRecord, target int) []int {
	bins := s.binByDirection(rays)
	if len(bins) == 0 {
		return samplePrefix(s.rng, identityIndices(len(rays)), target)
	}
	s.allocateQuotas(bins, target)

	selected := make([]int, 0, target)
	for _, b := range bins {
		if b.quota <= 0 {
			continue
		}
		if b.quota >= len(b.rays) {
			selected = append(selected, b.rays...)
			continue
		}
		selected = append(selected, samplePrefix(s.rng, b.rays, b.quota)...)
	}

	// Rounding can still leave the set off target: truncate the overshoot, or
	// pad from the globally unselected pool until it is exhausted.
	if len(selected) > target {
		return selected[:target]
	}
	if len(selected) < target {
		chosen := make([]bool, len(rays))
		for _, i := range selected {
			chosen[i] = true
		}
		var remaining []int
		for i := range rays {
			if !chosen[i] {
				remaining = append(remaining, i)
			}
		}
		need := imin(target-len(selected), len(remaining))
		if need > 0 {
			selected = append(selected, samplePrefix(s.rng, remaining, need)...)
		}
	}
	return selected
}

// binByDirection assigns each ray to a (theta, phi) cell.  Directions are
// normalized locally (zero-length guarded by dirEps) and n is clamped to
// [-1,1] before acos; the stored records are never mutated.
func (s *Subsampler) binByDirection(rays []RayRecord) []*angularBin {
	tb, pb := s.opts.ThetaBins, s.opts.PhiBins
	byKey := make(map[[2]int]*angularBin)
	for i, rr := range rays {
		d := rr.Dir().Norm()
		n := d.Z
		if n > 1 {
			n = 1
		} else if n < -1 {
			n = -1
		}
		theta := math.Acos(n)
		phi := math.Atan2(d.Y, d.X)

		ti := int(theta / math.Pi * Real(tb))
		if ti < 0 {
			ti = 0
		} else if ti >= tb {
			ti = tb - 1
		}
		pj := int((phi + math.Pi) / (2 * math.Pi) * Real(pb))
		if pj < 0 {
			pj = 0
		} else if pj >= pb {
			pj = pb - 1
		}

		key := [2]int{ti, pj}
		b := byKey[key]
		if b == nil {
			b = &angularBin{ti: ti, pj: pj}
			byKey[key] = b
		}
		b.rays = append(b.rays, i)
		if rr.Flux > 0 {
			b.flux += rr.Flux
		}
	}

	// Deterministic bin order so repeatable seeds give repeatable output.
	bins := make([]*angularBin, 0, len(byKey))
	for _, b := range byKey {
		bins = append(bins, b)
	}
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].ti != bins[j].ti {
			return bins[i].ti < bins[j].ti
		}
		return bins[i].pj < bins[j].pj
	})
	return bins
}

// allocateQuotas distributes target samples over the bins proportional to
// accumulated flux, falling back to population counts when the whole set has
// zero flux.  Every non-empty bin gets at least 1, capped at its population,
// then the total is reconciled to equal target exactly.
func (s *Subsampler) allocateQuotas(bins []*angularBin, target int) {
	fluxes := make([]float64, len(bins))
	totalCount := 0
	for i, b := range bins {
		fluxes[i] = b.flux
		totalCount += len(b.rays)
	}
	totalFlux := floats.Sum(fluxes)

	for _, b := range bins {
		var q int
		if totalFlux > 0 {
			q = int(math.Round(Real(target) * b.flux / totalFlux))
		} else {
			q = int(math.Round(Real(target) * Real(len(b.rays)) / Real(totalCount)))
		}
		b.quota = imin(len(b.rays), imax(1, q))
	}

	sum := 0
	for _, b := range bins {
		sum += b.quota
	}
	for sum > target {
		b := maxQuotaBin(bins)
		if b.quota <= 1 {
			break // every bin is at its floor; the final trim handles the rest
		}
		b.quota--
		sum--
	}
	for sum < target {
		b := maxSpareBin(bins)
		if b == nil || len(b.rays)-b.quota <= 0 {
			break // no spare capacity anywhere
		}
		b.quota++
		sum++
	}
}

func maxQuotaBin(bins []*angularBin) *angularBin {
	best := bins[0]
	for _, b := range bins[1:] {
		if b.quota > best.quota {
			best = b
		}
	}
	return best
}

func maxSpareBin(bins []*angularBin) *angularBin {
	var best *angularBin
	for _, b := range bins {
		if best == nil || len(b.rays)-b.quota > len(best.rays)-best.quota {
			best = b
		}
	}
	return best
}
