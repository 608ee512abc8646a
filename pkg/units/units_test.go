package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeatsToSamplesRoundTrip(t *testing.T) {
	tempo := 120.0
	sampleRate := 44100.0

	for _, n := range []float64{0, 1, 22050, 44100, 1000000} {
		beats := SamplesToBeats(n, tempo, sampleRate)
		back := BeatsToSamples(beats, tempo, sampleRate)
		assert.InDelta(t, n, back, 1.0, "round trip for %v samples", n)
	}
}

func TestSamplesPerBeatKnownValues(t *testing.T) {
	assert.InDelta(t, 22050.0, SamplesPerBeat(120, 44100), 1e-9)
	assert.InDelta(t, 18900.0, SamplesPerBeat(140, 44100), 1e-9)
}

func TestBlockCoversContiguousRange(t *testing.T) {
	blockSize := 512
	tempo := 120.0
	sampleRate := 44100.0

	b0 := Block(0, blockSize, tempo, sampleRate)
	b1 := Block(1, blockSize, tempo, sampleRate)

	assert.Equal(t, int64(0), b0.SampleStart)
	assert.Equal(t, int64(blockSize), b0.SampleEnd)
	assert.Equal(t, b0.SampleEnd, b1.SampleStart)
	assert.InDelta(t, b0.BeatEnd, b1.BeatStart, 1e-9)
}

func TestSampleOffsetForBeatClampsToBlock(t *testing.T) {
	blockSize := 512
	tempo := 120.0
	sampleRate := 44100.0
	interval := Block(0, blockSize, tempo, sampleRate)

	assert.Equal(t, 0, SampleOffsetForBeat(interval, -1, tempo, sampleRate))
	offset := SampleOffsetForBeat(interval, interval.BeatEnd-1e-6, tempo, sampleRate)
	assert.True(t, offset >= 0 && offset < blockSize)
}

func TestInInterval(t *testing.T) {
	assert.True(t, InInterval(0, 0, 4))
	assert.False(t, InInterval(4, 0, 4))
	assert.True(t, InInterval(3.999, 0, 4))
}
