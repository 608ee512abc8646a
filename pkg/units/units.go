// Package units converts between the three time domains the engine has to
// agree on every block: beats (the project model's native unit), samples
// (the audio device's native unit) and blocks (the audio callback's native
// unit).
package units

import "math"

// SamplesPerBeat returns the number of samples one beat occupies at the
// given tempo and sample rate. One beat = sampleRate * 60 / tempo samples.
func SamplesPerBeat(tempo float64, sampleRate float64) float64 {
	return sampleRate * 60.0 / tempo
}

// BeatsToSamples converts a beat position to an absolute sample position.
func BeatsToSamples(beats float64, tempo float64, sampleRate float64) float64 {
	return beats * SamplesPerBeat(tempo, sampleRate)
}

// SamplesToBeats converts an absolute sample position to a fractional beat
// position. It is the exact inverse of BeatsToSamples for the same tempo
// and sample rate.
func SamplesToBeats(samples float64, tempo float64, sampleRate float64) float64 {
	return samples / SamplesPerBeat(tempo, sampleRate)
}

// BlockInterval is the half-open sample range [Start, End) a single audio
// callback covers, along with the equivalent half-open beat range.
type BlockInterval struct {
	BlockIndex   uint64
	SampleStart  int64
	SampleEnd    int64
	BeatStart    float64
	BeatEnd      float64
}

// Block computes the BlockInterval for blockIndex given a fixed block size,
// tempo and sample rate. Block 0 covers samples [0, blockSize).
func Block(blockIndex uint64, blockSize int, tempo float64, sampleRate float64) BlockInterval {
	start := int64(blockIndex) * int64(blockSize)
	end := start + int64(blockSize)
	return BlockInterval{
		BlockIndex:  blockIndex,
		SampleStart: start,
		SampleEnd:   end,
		BeatStart:   SamplesToBeats(float64(start), tempo, sampleRate),
		BeatEnd:     SamplesToBeats(float64(end), tempo, sampleRate),
	}
}

// SampleOffsetForBeat returns the in-block sample offset (0..blockSize-1,
// clamped) that a beat position within [interval.BeatStart, interval.BeatEnd)
// falls on, rounding to the nearest sample.
func SampleOffsetForBeat(interval BlockInterval, beat float64, tempo float64, sampleRate float64) int {
	abs := BeatsToSamples(beat, tempo, sampleRate)
	offset := int(math.Round(abs)) - int(interval.SampleStart)
	blockSize := int(interval.SampleEnd - interval.SampleStart)
	if offset < 0 {
		offset = 0
	}
	if offset >= blockSize {
		offset = blockSize - 1
	}
	return offset
}

// InInterval reports whether beat lies in the half-open interval
// [start, end).
func InInterval(beat, start, end float64) bool {
	return beat >= start && beat < end
}
