package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/lukaszgryglicki/raysub/internal/raysub"
)

const usageText = `Usage:
  raysub convert   -in rays.dat -out rays.txt
  raysub subsample -in rays.txt -out small.txt -target N
                   [-format txt|tracepro|dat] [-method random|angular]
                   [-opts tuning.toml] [-repeatable] [-seed N]
  raysub info      -in rays.txt
`

func main() {
	log := initLogger()
	if err := run(os.Args[1:], log); err != nil {
		log.Fatal().Err(err).Msg("operation failed")
	}
}

func initLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if os.Getenv("DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "raysub").Logger()
}

func run(args []string, log zerolog.Logger) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("missing command")
	}
	obs := raysub.LogObserver{Log: log}

	switch args[0] {
	case "convert":
		fs := flag.NewFlagSet("convert", flag.ExitOnError)
		in := fs.String("in", "", "input binary .dat ray file")
		out := fs.String("out", "", "output ASCII .txt ray file")
		fs.Parse(args[1:])
		if *in == "" || *out == "" {
			return fmt.Errorf("convert: -in and -out are required")
		}
		if err := raysub.Convert(*in, *out, obs); err != nil {
			return err
		}
		log.Info().Str("path", *out).Msg("converted")
		return nil

	case "subsample":
		fs := flag.NewFlagSet("subsample", flag.ExitOnError)
		in := fs.String("in", "", "input ASCII .txt ray file")
		out := fs.String("out", "", "output file")
		target := fs.Int("target", 0, "target ray count")
		format := fs.String("format", "txt", "output format: txt, tracepro or dat")
		method := fs.String("method", "random", "sampling method: random or angular")
		optsPath := fs.String("opts", "", "optional TOML tuning file")
		repeatable := fs.Bool("repeatable", false, "seed the sampler deterministically")
		seed := fs.Uint64("seed", 0, "seed for -repeatable runs")
		fs.Parse(args[1:])
		if *in == "" || *out == "" {
			return fmt.Errorf("subsample: -in and -out are required")
		}
		if *target <= 0 {
			return fmt.Errorf("subsample: -target must be a positive integer")
		}
		f, err := raysub.ParseFormat(*format)
		if err != nil {
			return err
		}
		m, err := raysub.ParseMethod(*method)
		if err != nil {
			return err
		}
		opts := raysub.DefaultOptions()
		if *optsPath != "" {
			if opts, err = raysub.LoadOptions(*optsPath); err != nil {
				return err
			}
		}
		if *repeatable {
			opts.Repeatable = true
			opts.Seed = *seed
		}
		s := raysub.NewSubsampler(opts, obs)
		if err := s.Run(*in, *target, *out, f, m); err != nil {
			return err
		}
		log.Info().Str("path", *out).Msg("saved")
		return nil

	case "info":
		fs := flag.NewFlagSet("info", flag.ExitOnError)
		in := fs.String("in", "", "input ASCII .txt ray file")
		fs.Parse(args[1:])
		if *in == "" {
			return fmt.Errorf("info: -in is required")
		}
		set, err := raysub.ScanAscii(*in)
		if err != nil {
			return err
		}
		fmt.Printf("header rays:     %d\n", set.NumRays)
		fmt.Printf("usable rays:     %d\n", len(set.Rays))
		fmt.Printf("dimension units: %d\n", set.DimensionUnits)
		fmt.Printf("ray format:      %d\n", set.RayFormatType)
		fmt.Printf("flux type:       %d\n", set.FluxType)
		if set.Skipped > 0 {
			fmt.Printf("skipped lines:   %d\n", set.Skipped)
		}
		return nil
	}

	fmt.Fprint(os.Stderr, usageText)
	return fmt.Errorf("unknown command %q", args[0])
}
