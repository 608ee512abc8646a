package transport

import "math"

// floatBits and bitsFloat store float64 values in an atomic.Uint64, the
// same pattern the teacher uses in pkg/param for atomic parameter values.
func floatBits(f float64) uint64 { return math.Float64bits(f) }

func bitsFloat(b uint64) float64 { return math.Float64frombits(b) }
