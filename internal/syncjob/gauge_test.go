package syncjob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaugeOffset(t *testing.T) {
	c := GaugeCircumference()
	assert.InDelta(t, 125.66, c, 0.01)

	tests := []struct {
		name    string
		percent float64
		want    float64
	}{
		{name: "zero hides the stroke", percent: 0, want: c},
		{name: "half", percent: 50, want: c / 2},
		{name: "full reveals everything", percent: 100, want: 0},
		{name: "negative clamps to zero", percent: -10, want: c},
		{name: "overshoot clamps to full", percent: 140, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GaugeOffset(tt.percent), 0.001)
		})
	}
}
