package raysub

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"
)

func stratSubsampler(theta, phi int) *Subsampler {
	o := repeatableOpts()
	o.ThetaBins = theta
	o.PhiBins = phi
	return NewSubsampler(o, nil)
}

func dirRecord(l, m, n, flux Real) RayRecord {
	return RayRecord{L: l, M: m, N: n, Flux: flux}
}

func TestBinByDirection(t *testing.T) {
	s := stratSubsampler(3, 4)
	rays := []RayRecord{
		dirRecord(0, 0, 1, 1),  // theta=0: first theta bin
		dirRecord(0, 0, -1, 1), // theta=pi: clamped into last theta bin
		dirRecord(1, 0, 0, 1),  // theta=pi/2: middle theta bin
		dirRecord(0, 0, 2, 1),  // unnormalized +z: same bin as the first ray
	}
	bins := s.binByDirection(rays)
	if len(bins) != 3 {
		t.Fatalf("got %d bins want 3", len(bins))
	}
	// bins are sorted by (ti, pj)
	if bins[0].ti != 0 || len(bins[0].rays) != 2 {
		t.Fatalf("+z bin wrong: %+v", bins[0])
	}
	if bins[0].flux != 2 {
		t.Fatalf("+z bin flux got %v want 2", bins[0].flux)
	}
	if bins[2].ti != 2 || len(bins[2].rays) != 1 {
		t.Fatalf("-z bin wrong: %+v", bins[2])
	}
	for _, b := range bins {
		if b.ti < 0 || b.ti >= 3 || b.pj < 0 || b.pj >= 4 {
			t.Fatalf("bin index out of range: %+v", b)
		}
	}
}

func TestBinByDirectionZeroVector(t *testing.T) {
	// a zero direction must not produce NaN indices, just land in some bin
	s := stratSubsampler(3, 4)
	bins := s.binByDirection([]RayRecord{dirRecord(0, 0, 0, 1)})
	if len(bins) != 1 {
		t.Fatalf("got %d bins want 1", len(bins))
	}
}

func TestBinByDirectionNegativeFluxIgnored(t *testing.T) {
	s := stratSubsampler(3, 4)
	bins := s.binByDirection([]RayRecord{
		dirRecord(0, 0, 1, -5),
		dirRecord(0, 0, 1, 2),
	})
	if len(bins) != 1 || bins[0].flux != 2 {
		t.Fatalf("negative flux must not reduce the bin sum: %+v", bins[0])
	}
}

func TestAllocateQuotasFluxProportional(t *testing.T) {
	s := stratSubsampler(2, 2)
	bins := []*angularBin{
		{rays: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, flux: 90},
		{rays: []int{9, 10, 11}, flux: 10},
	}
	s.allocateQuotas(bins, 10)
	if bins[0].quota+bins[1].quota != 10 {
		t.Fatalf("quotas sum to %d want 10", bins[0].quota+bins[1].quota)
	}
	if bins[0].quota != 9 || bins[1].quota != 1 {
		t.Fatalf("flux-proportional split wrong: %d/%d", bins[0].quota, bins[1].quota)
	}
}

func TestAllocateQuotasCountFallback(t *testing.T) {
	// zero total flux: allocation falls back to population counts
	s := stratSubsampler(2, 2)
	bins := []*angularBin{
		{rays: []int{0, 1, 2, 3, 4, 5}, flux: 0},
		{rays: []int{6, 7}, flux: 0},
	}
	s.allocateQuotas(bins, 4)
	if bins[0].quota+bins[1].quota != 4 {
		t.Fatalf("quotas sum to %d want 4", bins[0].quota+bins[1].quota)
	}
	if bins[0].quota != 3 || bins[1].quota != 1 {
		t.Fatalf("count-proportional split wrong: %d/%d", bins[0].quota, bins[1].quota)
	}
}

func TestAllocateQuotasCappedByPopulation(t *testing.T) {
	// nearly all flux in a tiny bin: quota is capped at its population and
	// the remainder flows to bins with spare capacity
	s := stratSubsampler(2, 2)
	bins := []*angularBin{
		{rays: []int{0, 1}, flux: 1000},
		{rays: []int{2, 3, 4, 5, 6, 7, 8, 9}, flux: 1},
	}
	s.allocateQuotas(bins, 8)
	if bins[0].quota != 2 {
		t.Fatalf("hot bin quota got %d want its population 2", bins[0].quota)
	}
	if bins[0].quota+bins[1].quota != 8 {
		t.Fatalf("quotas sum to %d want 8", bins[0].quota+bins[1].quota)
	}
}

func TestAllocateQuotasMinimumOne(t *testing.T) {
	// every non-empty bin keeps at least one sample while the sum allows it
	s := stratSubsampler(2, 2)
	bins := []*angularBin{
		{rays: []int{0, 1, 2, 3}, flux: 1000},
		{rays: []int{4}, flux: 1e-9},
		{rays: []int{5}, flux: 1e-9},
	}
	s.allocateQuotas(bins, 6)
	sum := 0
	for _, b := range bins {
		if b.quota < 1 {
			t.Fatalf("non-empty bin got quota %d", b.quota)
		}
		sum += b.quota
	}
	if sum != 6 {
		t.Fatalf("quotas sum to %d want 6", sum)
	}
}

func TestAllocateQuotasMoreBinsThanTarget(t *testing.T) {
	// with more populated bins than target the floor wins; the final trim in
	// sampleStratified restores the exact count
	s := stratSubsampler(4, 4)
	bins := make([]*angularBin, 5)
	for i := range bins {
		bins[i] = &angularBin{rays: []int{i}, flux: 1}
	}
	s.allocateQuotas(bins, 3)
	sum := 0
	for _, b := range bins {
		sum += b.quota
	}
	if sum != 5 { // one per bin, cannot go lower
		t.Fatalf("quota sum got %d want 5", sum)
	}
}

func TestSampleStratifiedExactCount(t *testing.T) {
	rays := make([]RayRecord, 0, 300)
	for i := 0; i < 100; i++ {
		rays = append(rays, dirRecord(0, 0, 1, 10))
		rays = append(rays, dirRecord(1, 0, 0, 1))
		rays = append(rays, dirRecord(0, 1, 0, 0.1))
	}
	s := stratSubsampler(9, 18)
	for _, target := range []int{1, 7, 30, 150, 299, 300} {
		got := s.sampleStratified(rays, target)
		if len(got) != target {
			t.Fatalf("target %d: got %d rays", target, len(got))
		}
		seen := make(map[int]bool)
		for _, idx := range got {
			if seen[idx] {
				t.Fatalf("target %d: index %d sampled twice", target, idx)
			}
			seen[idx] = true
		}
	}
}

func TestSampleStratifiedFluxWeighting(t *testing.T) {
	// 100 high-flux +z rays vs 100 low-flux +x rays: the +z bin must get the
	// lion's share of a 20-ray budget
	rays := make([]RayRecord, 0, 200)
	for i := 0; i < 100; i++ {
		rays = append(rays, dirRecord(0, 0, 1, 99))
		rays = append(rays, dirRecord(1, 0, 0, 1))
	}
	s := stratSubsampler(9, 18)
	got := s.sampleStratified(rays, 20)
	up := 0
	for _, idx := range got {
		if rays[idx].N == 1 {
			up++
		}
	}
	if up < 18 {
		t.Fatalf("high-flux bin got only %d of 20 samples", up)
	}
}

func TestSampleStratifiedEndToEnd(t *testing.T) {
	lines := make([]string, 0, 120)
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("%d 0 0 0.0 0.0 1.0 0.9", i))
		lines = append(lines, fmt.Sprintf("%d 0 0 1.0 0.0 0.0 0.05", i))
		lines = append(lines, fmt.Sprintf("%d 0 0 0.0 1.0 0.0 0.05", i))
	}
	in := asciiFixture(t, 120, lines)
	out := filepath.Join(t.TempDir(), "small.txt")
	s := stratSubsampler(9, 18)
	if err := s.Run(in, 24, out, FormatAscii, MethodAngularStratified); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := readOutputLines(t, out)
	if got[0] != "24 1 0 0" {
		t.Fatalf("header got %q", got[0])
	}
	if len(got)-1 != 24 {
		t.Fatalf("got %d rays want 24", len(got)-1)
	}
}

func TestSampleStratifiedDegenerateDirections(t *testing.T) {
	// all-zero directions all land in one bin; the run must still hit the
	// exact target
	rays := make([]RayRecord, 50)
	for i := range rays {
		rays[i] = dirRecord(0, 0, 0, 1)
	}
	s := stratSubsampler(9, 18)
	got := s.sampleStratified(rays, 10)
	if len(got) != 10 {
		t.Fatalf("got %d rays want 10", len(got))
	}
}

func TestSampleStratifiedNaNFluxDoesNotPoisonBins(t *testing.T) {
	rays := []RayRecord{
		dirRecord(0, 0, 1, math.NaN()),
		dirRecord(0, 0, 1, 1),
		dirRecord(1, 0, 0, 1),
		dirRecord(0, 1, 0, 1),
	}
	s := stratSubsampler(9, 18)
	got := s.sampleStratified(rays, 3)
	if len(got) != 3 {
		t.Fatalf("got %d rays want 3", len(got))
	}
}
