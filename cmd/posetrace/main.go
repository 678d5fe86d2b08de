// Package main provides a command-line tool that simulates motion blends on a
// synthetic rig and records the resulting channel curves to a WAV trace.
//
// Each traced channel becomes one audio channel and every simulated tick one
// sample, so the curves can be inspected in any audio editor or diffed
// against a reference trace.
//
// Usage:
//
//	posetrace [options] <output.wav>
//
// Modes:
//
//	transition  Switch between an idle and a walk pose (11 pose slots + weight)
//	compare     Crossfade and inertial transition side by side (stereo)
//	sync        Tag-synchronized locomotion blend (blend, weights, timers)
//	direction   Five-way direction blend sweep (5 weights + translation X)
//
// Options:
//
//	-mode string      Scenario to simulate (default "transition")
//	-type string      Transition type: crossfade, inertial (default "inertial")
//	-curve string     Crossfade easing curve (default "linear")
//	-duration float   Transition duration in seconds (default 0.5)
//	-rate int         Ticks per second (default 60)
//	-seconds float    Simulated time in seconds (default 3)
//	-switch float     Time of the condition flip in seconds (default 1)
//	-motions string   Motion set INI file for sync mode
//	-fast             Use float32 channel buffers
//	-rigs int         Number of rigs evaluated per tick (default 1)
//	-parallel         Evaluate rigs on a worker pool
//	-diff string      Reference trace to compare against
//	-v                Verbose output
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	motionblend "github.com/tphakala/go-motion-blend"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	opts := parseFlags()

	if flag.NArg() < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <output.wav>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	outputPath := flag.Arg(0)

	if err := opts.validate(); err != nil {
		return err
	}

	if opts.verbose {
		log.Printf("Mode: %s", opts.mode)
		log.Printf("Transition: %s, %.3fs, curve %s", opts.kind, opts.duration, opts.curve)
		log.Printf("Ticks: %d/s for %.2fs", opts.rate, opts.seconds)
		log.Printf("Rigs: %d (parallel: %v, float32: %v)", opts.rigs, opts.parallel, opts.fast)
	}

	start := time.Now()
	var (
		tr  *trace
		err error
	)
	if opts.fast {
		tr, err = simulate[float32](opts)
	} else {
		tr, err = simulate[float64](opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := tr.writeWAV(outputPath, opts.rangeLimit); err != nil {
		return err
	}

	fmt.Printf("Mode:      %s\n", opts.mode)
	fmt.Printf("Ticks:     %d at %d/s\n", tr.frames(), tr.rate)
	fmt.Printf("Channels:  %d\n", tr.channels)
	fmt.Printf("Output:    %s\n", outputPath)
	if opts.verbose {
		fmt.Printf("Simulated: %v\n", elapsed)
	}

	if opts.diffPath != "" {
		return reportDiff(outputPath, opts.diffPath, opts.rangeLimit)
	}
	return nil
}

// options holds the parsed command-line flags.
type options struct {
	mode       string
	kind       motionblend.TransitionType
	kindName   string
	curve      string
	duration   float64
	rate       int
	seconds    float64
	switchAt   float64
	motions    string
	fast       bool
	rigs       int
	parallel   bool
	diffPath   string
	rangeLimit float64
	verbose    bool
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.mode, "mode", modeTransition, "Scenario: transition, compare, sync, direction")
	flag.StringVar(&opts.kindName, "type", "inertial", "Transition type: crossfade, inertial")
	flag.StringVar(&opts.curve, "curve", "linear", "Crossfade easing curve")
	flag.Float64Var(&opts.duration, "duration", defaultDuration, "Transition duration in seconds")
	flag.IntVar(&opts.rate, "rate", defaultTickRate, "Ticks per second")
	flag.Float64Var(&opts.seconds, "seconds", defaultSeconds, "Simulated time in seconds")
	flag.Float64Var(&opts.switchAt, "switch", defaultSwitchAt, "Time of the condition flip in seconds")
	flag.StringVar(&opts.motions, "motions", "", "Motion set INI file for sync mode")
	flag.BoolVar(&opts.fast, "fast", false, "Use float32 channel buffers")
	flag.IntVar(&opts.rigs, "rigs", defaultRigs, "Number of rigs evaluated per tick")
	flag.BoolVar(&opts.parallel, "parallel", false, "Evaluate rigs on a worker pool")
	flag.StringVar(&opts.diffPath, "diff", "", "Reference trace to compare against")
	flag.Float64Var(&opts.rangeLimit, "range", defaultRange, "Trace value range")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose output")
	flag.Parse()
	return opts
}

func (o *options) validate() error {
	kind, err := motionblend.ParseTransitionType(o.kindName)
	if err != nil {
		return err
	}
	o.kind = kind

	switch o.mode {
	case modeTransition, modeCompare, modeSync, modeDirection:
	default:
		return fmt.Errorf("unknown mode %q", o.mode)
	}
	if o.rate < minTickRate || o.rate > maxTickRate {
		return fmt.Errorf("tick rate %d outside [%d, %d]", o.rate, minTickRate, maxTickRate)
	}
	if o.seconds <= 0 {
		return fmt.Errorf("seconds must be positive, got %g", o.seconds)
	}
	if o.rigs < 1 {
		return fmt.Errorf("rigs must be at least 1, got %d", o.rigs)
	}
	if o.rangeLimit <= 0 {
		return fmt.Errorf("range must be positive, got %g", o.rangeLimit)
	}
	return nil
}

// ticks returns the number of simulated ticks.
func (o *options) ticks() int {
	return max(1, int(o.seconds*float64(o.rate)))
}

func (o *options) deltaTime() float64 {
	return 1 / float64(o.rate)
}

// reportDiff prints the largest per-channel difference between the written
// trace and a reference. Both are read back so quantization matches.
func reportDiff(outputPath, refPath string, rangeLimit float64) error {
	got, err := readWAV(outputPath, rangeLimit)
	if err != nil {
		return err
	}
	ref, err := readWAV(refPath, rangeLimit)
	if err != nil {
		return err
	}
	diffs, err := maxDiff(got, ref)
	if err != nil {
		return err
	}

	fmt.Printf("\nDifference vs %s:\n", refPath)
	var worst float64
	for ch, d := range diffs {
		fmt.Printf("  channel %2d: %.6g\n", ch, d)
		worst = max(worst, d)
	}
	fmt.Printf("  max:        %.6g\n", worst)
	return nil
}
