package syncjob

import "math"

// GaugeRadius is the radius of the circular per-company progress
// indicator, in display units.
const GaugeRadius = 20.0

// GaugeCircumference is the indicator's stroke length.
func GaugeCircumference() float64 {
	return 2 * math.Pi * GaugeRadius
}

// GaugeOffset maps a progress percentage onto the indicator's
// stroke-dash offset: offset = C - (percent/100)*C. Zero percent leaves
// the full circumference hidden, one hundred reveals it all.
func GaugeOffset(percent float64) float64 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	c := GaugeCircumference()
	return c - (percent/100)*c
}
