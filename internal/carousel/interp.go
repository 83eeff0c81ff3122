package carousel

import "math"

// Interpolate maps x through the piecewise-linear curve in -> out, clamping
// outside the input range. in must be increasing.
func Interpolate(x float64, in, out [3]float64) float64 {
	switch {
	case x <= in[0]:
		return out[0]
	case x >= in[2]:
		return out[2]
	case x <= in[1]:
		return lerp(out[0], out[1], (x-in[0])/(in[1]-in[0]))
	default:
		return lerp(out[1], out[2], (x-in[1])/(in[2]-in[1]))
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Dot widths in cells for pagination indicators.
const (
	DotMinWidth = 1
	DotMaxWidth = 3
)

// DotWidth returns the width of the pagination dot for original item i when
// the viewport rests at position. Distances are measured around the loop so
// the dots stay continuous while the viewport crosses a clone region.
func DotWidth(position, stride float64, i, cloneCount, originalLen int) int {
	if originalLen <= 0 || stride <= 0 {
		return DotMinWidth
	}
	d := loopDistance(position-float64(cloneCount+i)*stride, float64(originalLen)*stride)
	w := Interpolate(d, [3]float64{-stride, 0, stride}, [3]float64{DotMinWidth, DotMaxWidth, DotMinWidth})
	return int(math.Round(w))
}

// CardScale returns the render scale of the item at padded index p.
func CardScale(position, stride float64, p int) float64 {
	d := position - float64(p)*stride
	return Interpolate(d, [3]float64{-stride, 0, stride}, [3]float64{0.85, 1, 0.85})
}

// loopDistance folds d into [-period/2, period/2).
func loopDistance(d, period float64) float64 {
	if period <= 0 {
		return d
	}
	d = math.Mod(d+period/2, period)
	if d < 0 {
		d += period
	}
	return d - period/2
}
