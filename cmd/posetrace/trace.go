package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// trace holds per-tick values of a set of channels, interleaved frame by
// frame like PCM audio.
type trace struct {
	channels int
	rate     int
	data     []float64
}

func newTrace(channels, rate int) (*trace, error) {
	if channels < 1 || channels > maxTraceChannels {
		return nil, fmt.Errorf("trace channel count %d outside [1, %d]", channels, maxTraceChannels)
	}
	if rate < minTickRate || rate > maxTickRate {
		return nil, fmt.Errorf("tick rate %d outside [%d, %d]", rate, minTickRate, maxTickRate)
	}
	return &trace{channels: channels, rate: rate}, nil
}

// addFrame appends one tick. values must hold one entry per channel.
func (t *trace) addFrame(values []float64) {
	t.data = append(t.data, values[:t.channels]...)
}

func (t *trace) frames() int {
	return len(t.data) / t.channels
}

// channel returns the values of one channel across all frames.
func (t *trace) channel(ch int) []float64 {
	out := make([]float64, t.frames())
	for i := range out {
		out[i] = t.data[i*t.channels+ch]
	}
	return out
}

// toPCM scales values in [-rangeLimit, rangeLimit] to 32-bit samples.
func toPCM(v, rangeLimit float64) int {
	n := min(max(v/rangeLimit, -1), 1)
	return int(n * maxInt32)
}

func fromPCM(s int, rangeLimit float64) float64 {
	return float64(s) / maxInt32 * rangeLimit
}

// writeWAV encodes the trace as 32-bit PCM with one audio channel per
// traced channel and one sample per tick.
func (t *trace) writeWAV(path string, rangeLimit float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	pcm := make([]int, len(t.data))
	for i, v := range t.data {
		pcm[i] = toPCM(v, rangeLimit)
	}

	enc := wav.NewEncoder(f, t.rate, traceBitDepth, t.channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: t.channels, SampleRate: t.rate},
		Data:           pcm,
		SourceBitDepth: traceBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize trace: %w", err)
	}
	return nil
}

// readWAV decodes a trace written by writeWAV.
func readWAV(path string, rangeLimit float64) (*trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	if int(dec.BitDepth) != traceBitDepth {
		return nil, fmt.Errorf("trace %s is %d-bit, want %d-bit", path, dec.BitDepth, traceBitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read trace samples: %w", err)
	}

	format := dec.Format()
	t, err := newTrace(format.NumChannels, format.SampleRate)
	if err != nil {
		return nil, err
	}
	t.data = make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		t.data[i] = fromPCM(s, rangeLimit)
	}
	return t, nil
}

var errTraceShape = errors.New("traces differ in shape")

// maxDiff returns the largest absolute difference per channel.
func maxDiff(a, b *trace) ([]float64, error) {
	if a.channels != b.channels || a.frames() != b.frames() {
		return nil, fmt.Errorf("%w: %d×%d vs %d×%d", errTraceShape,
			a.channels, a.frames(), b.channels, b.frames())
	}
	out := make([]float64, a.channels)
	for i := range a.data {
		ch := i % a.channels
		out[ch] = max(out[ch], math.Abs(a.data[i]-b.data[i]))
	}
	return out, nil
}
