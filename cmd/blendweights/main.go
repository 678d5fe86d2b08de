// Package main prints blend weight tables for a sweep of the blend
// parameter, either over the thresholds of a motion set or over the five
// direction inputs.
//
// Usage:
//
//	blendweights [options] [motions.ini]
//
// Without a motion set file the direction weights are printed.
//
// Options:
//
//	-from float   First blend parameter (default 0)
//	-to float     Last blend parameter (default 1, 4 for directions)
//	-step float   Parameter increment (default 0.125)
//	-v            Verbose output
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	motionblend "github.com/tphakala/go-motion-blend"
)

func main() {
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer) error {
	var (
		from    = flag.Float64("from", defaultFrom, "First blend parameter")
		to      = flag.Float64("to", defaultTo, "Last blend parameter")
		step    = flag.Float64("step", defaultStep, "Parameter increment")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	sweep := sweepRange{from: *from, to: *to, step: *step}
	if flag.NArg() == 0 {
		if !isFlagSet("to") {
			sweep.to = motionblend.DirectionCount - 1
		}
		if err := sweep.validate(); err != nil {
			return err
		}
		return writeDirectionTable(w, sweep)
	}

	set, err := motionblend.LoadMotionSet(flag.Arg(0))
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Loaded %d motions from %s", len(set.Motions), flag.Arg(0))
		log.Printf("Longest motion: %.3fs", set.LongestDuration())
	}
	if err := sweep.validate(); err != nil {
		return err
	}
	return writeMotionTable(w, set, sweep)
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// sweepRange is an inclusive parameter sweep.
type sweepRange struct {
	from, to, step float64
}

func (s sweepRange) validate() error {
	if s.step <= 0 {
		return fmt.Errorf("step must be positive, got %g", s.step)
	}
	if s.to < s.from {
		return fmt.Errorf("sweep end %g is below start %g", s.to, s.from)
	}
	if s.rows() > maxRows {
		return fmt.Errorf("sweep has %d rows, limit is %d", s.rows(), maxRows)
	}
	return nil
}

// rows returns the number of sweep points, including both ends.
func (s sweepRange) rows() int {
	return int((s.to-s.from)/s.step+1e-9) + 1
}

func (s sweepRange) at(i int) float64 {
	return s.from + float64(i)*s.step
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, tabPadChar, tabwriter.AlignRight)
}

// writeMotionTable prints, per blend value, the weight of every motion, the
// effective cycle duration and the leading motion.
func writeMotionTable(w io.Writer, set *motionblend.MotionSet, sweep sweepRange) error {
	tagSync, err := motionblend.NewTagSync(set)
	if err != nil {
		return err
	}

	tw := newTable(w)
	fmt.Fprint(tw, "blend\t")
	for _, m := range set.Motions {
		fmt.Fprintf(tw, "%s\t", m.Name)
	}
	fmt.Fprint(tw, "duration\tmaster\t\n")

	for i := range sweep.rows() {
		blend := sweep.at(i)
		tagSync.Update(blend, 0)

		fmt.Fprintf(tw, "%.3f\t", blend)
		for _, wt := range tagSync.Weights() {
			fmt.Fprintf(tw, "%.4f\t", wt)
		}
		fmt.Fprintf(tw, "%.4f\t%s\t\n", tagSync.EffectiveDuration(), set.Motions[tagSync.Master()].Name)
	}
	return tw.Flush()
}

var directionNames = [motionblend.DirectionCount]string{"d0", "d1", "d2", "d3", "d4"}

// writeDirectionTable prints the five direction weights per parameter value.
func writeDirectionTable(w io.Writer, sweep sweepRange) error {
	tw := newTable(w)
	fmt.Fprint(tw, "param\t")
	for _, name := range directionNames {
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprint(tw, "\n")

	for i := range sweep.rows() {
		param := sweep.at(i)
		fmt.Fprintf(tw, "%.3f\t", param)
		for _, wt := range motionblend.DirectionWeights(param) {
			fmt.Fprintf(tw, "%.4f\t", wt)
		}
		fmt.Fprint(tw, "\n")
	}
	return tw.Flush()
}
