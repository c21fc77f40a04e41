package raysub

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AsciiRaySet is an ASCII ray file loaded into memory: the four header
// fields plus every valid 7-field ray line parsed into records.
type AsciiRaySet struct {
	NumRays        int // ray count claimed by the header line
	DimensionUnits int
	RayFormatType  int
	FluxType       int
	Rays           []RayRecord
	Skipped        int // lines after the header that were not 7-field ray lines
}

// isHeaderLine reports whether the tokenized line looks like a ray-file
// header: exactly 4 tokens with a non-negative integer literal first.
func isHeaderLine(fields []string) bool {
	return len(fields) == 4 && isUintLiteral(fields[0])
}

func isUintLiteral(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// LoadAscii reads an entire ASCII ray file.  The header is located by a
// linear scan, not a fixed line index, so leading blank or comment lines are
// tolerated.  Lines after the header with a token count other than 7 are
// skipped (this includes 8-field spectral lines) and counted in Skipped.
// Progress covers the 0..50 range of a subsample run.
func LoadAscii(path string, obs Observer, stride int) (*AsciiRaySet, error) {
	if obs == nil {
		obs = NopObserver
	}
	if stride <= 0 {
		stride = ProgressStride
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")

	hi := -1
	var set AsciiRaySet
	for i, line := range lines {
		fields := strings.Fields(line)
		if isHeaderLine(fields) {
			hi = i
			if err := set.parseHeaderFields(fields); err != nil {
				return nil, err
			}
			break
		}
	}
	if hi < 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoHeaderFound, path)
	}

	body := lines[hi+1:]
	total := imax(1, len(body))
	for i, line := range body {
		if i%stride == 0 {
			obs.Progress(i * 50 / total)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != rayFloatsGeneric {
			set.Skipped++
			continue
		}
		rr, err := parseAsciiRay(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", hi+1+i+1, err)
		}
		set.Rays = append(set.Rays, rr)
	}
	return &set, nil
}

func (set *AsciiRaySet) parseHeaderFields(fields []string) error {
	vals := make([]int, 4)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("header: %w: %q", ErrInvalidNumericField, f)
		}
		vals[i] = v
	}
	set.NumRays = vals[0]
	set.DimensionUnits = vals[1]
	set.RayFormatType = vals[2]
	set.FluxType = vals[3]
	return nil
}

// ScanAscii loads an ASCII ray file just to report its header fields and the
// number of usable ray lines (what the file picker showed in the old tool).
func ScanAscii(path string) (*AsciiRaySet, error) {
	return LoadAscii(path, NopObserver, ProgressStride)
}
