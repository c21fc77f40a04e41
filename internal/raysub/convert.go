package raysub

import (
	"bufio"
	"fmt"
	"os"
)

// Convert streams a binary ray file into the native ASCII layout: one header
// line "<rays> <units> <format> <fluxtype> " followed by one line per record.
// Records are processed in a single forward pass; the whole set is never held
// in memory.  On failure the partially written output is left on disk.
func Convert(inputPath, outputPath string, obs Observer) error {
	if obs == nil {
		obs = NopObserver
	}
	obs.Progress(0)
	obs.Status("Reading binary header...")

	fin, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer fin.Close()
	br := bufio.NewReader(fin)

	h, err := ReadHeader(br)
	if err != nil {
		return err
	}

	obs.Status("Writing ASCII header...")
	fout, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer fout.Close()
	w := bufio.NewWriter(fout)

	fmt.Fprintf(w, "%d %d %d %d \n", h.NumRays, h.DimensionUnits, h.RayFormatType, h.FluxType)

	obs.Status("Converting rays...")
	n := int(h.NumRays)
	vals := make([]float32, h.RayFloats())
	for i := 0; i < n; i++ {
		if i%ProgressStride == 0 {
			obs.Progress(i * 100 / imax(1, n))
		}
		if err := readBinaryRay(br, vals); err != nil {
			return fmt.Errorf("%w at ray %d", err, i)
		}
		if _, err := w.WriteString(formatConvertedRay(vals)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	obs.Progress(100)
	obs.Status("Conversion complete")
	return nil
}
