package util

import (
	"math"
	"runtime"
)

// Lerp performs linear interpolation between a and b with t in [0,1]
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp restricts a value to be between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Clamp01 restricts a value to [0,1]
func Clamp01(value float64) float64 {
	return Clamp(value, 0, 1)
}

// SmoothStep is the GLSL smoothstep. Reversed edges (edge0 > edge1) give a
// falling curve, which is how radial falloffs are written in the shaders.
func SmoothStep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Distance2D calculates the Euclidean distance between two 2D points
func Distance2D(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Fract returns the fractional part of x, always in [0,1)
func Fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

// Workers resolves a configured worker count, 0 or less meaning one per CPU
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// SplitRows divides [0,total) into at most parts contiguous ranges and calls
// fn for each. Used to fan work out over goroutines.
func SplitRows(total, parts int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	if parts > total {
		parts = total
	}
	if parts < 1 {
		parts = 1
	}
	rows := total / parts
	for g := 0; g < parts; g++ {
		start := g * rows
		end := start + rows
		if g == parts-1 {
			end = total
		}
		fn(start, end)
	}
}
