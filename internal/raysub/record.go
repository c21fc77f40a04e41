package raysub

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	rayFloatsGeneric  = 7 // x y z l m n flux
	rayFloatsSpectral = 8 // x y z l m n flux wavelength
)

// readBinaryRay decodes one fixed-size binary record into vals, whose length
// selects the 7- or 8-float layout.
func readBinaryRay(r io.Reader, vals []float32) error {
	if err := binary.Read(r, binary.LittleEndian, vals); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrUnexpectedEndOfRays
		}
		return err
	}
	return nil
}

// writeBinaryRay emits the 7-float output layout.  flux is passed separately
// because writers sanitize it at write time.
func writeBinaryRay(w io.Writer, rr RayRecord, flux Real) error {
	vals := [rayFloatsGeneric]float32{
		float32(rr.X), float32(rr.Y), float32(rr.Z),
		float32(rr.L), float32(rr.M), float32(rr.N),
		float32(flux),
	}
	return binary.Write(w, binary.LittleEndian, vals)
}

// formatConvertedRay renders a decoded binary record as one line of the
// native ASCII layout.  The converter historically emits a space before the
// newline; that is kept for byte compatibility with existing files.
func formatConvertedRay(vals []float32) string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "%.6f ", vals[i])
	}
	fmt.Fprintf(&b, "%.6e", vals[6])
	if len(vals) == rayFloatsSpectral {
		fmt.Fprintf(&b, " %.6f", vals[7])
	}
	b.WriteString(" \n")
	return b.String()
}

// AsciiLine renders the record in the native ASCII subsample layout:
// six fixed-point fields and the flux in scientific notation.
func (rr RayRecord) AsciiLine() string {
	return fmt.Sprintf("%.6f %.6f %.6f %.6f %.6f %.6f %.6e\n",
		rr.X, rr.Y, rr.Z, rr.L, rr.M, rr.N, rr.Flux)
}

// traceProLine renders the record in the TracePro ASCII layout: all seven
// fields in scientific notation, trailing space before the newline.
func (rr RayRecord) traceProLine(flux Real) string {
	return fmt.Sprintf("%.6E %.6E %.6E %.6E %.6E %.6E %.6E \n",
		rr.X, rr.Y, rr.Z, rr.L, rr.M, rr.N, flux)
}

// parseAsciiRay parses an exactly-7-token ray line.  Callers have already
// checked the token count.
func parseAsciiRay(fields []string) (RayRecord, error) {
	var v [rayFloatsGeneric]Real
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return RayRecord{}, fmt.Errorf("%w: %q", ErrInvalidNumericField, f)
		}
		v[i] = x
	}
	return RayRecord{X: v[0], Y: v[1], Z: v[2], L: v[3], M: v[4], N: v[5], Flux: v[6]}, nil
}
