package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(items []PageItem) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if !it.Ellipsis {
			out = append(out, it.Page)
		}
	}
	return out
}

func ellipses(items []PageItem) int {
	n := 0
	for _, it := range items {
		if it.Ellipsis {
			n++
		}
	}
	return n
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		total        int
		wantPages    []int
		wantEllipses int
	}{
		{name: "middle of ten", current: 5, total: 10, wantPages: []int{1, 4, 5, 6, 10}, wantEllipses: 2},
		{name: "first of ten", current: 1, total: 10, wantPages: []int{1, 2, 10}, wantEllipses: 1},
		{name: "last of ten", current: 10, total: 10, wantPages: []int{1, 9, 10}, wantEllipses: 1},
		{name: "no gap collapses nothing", current: 3, total: 10, wantPages: []int{1, 2, 3, 4, 10}, wantEllipses: 1},
		{name: "adjacent to last", current: 8, total: 10, wantPages: []int{1, 7, 8, 9, 10}, wantEllipses: 1},
		{name: "single page", current: 1, total: 1, wantPages: []int{1}, wantEllipses: 0},
		{name: "three pages shows all", current: 2, total: 3, wantPages: []int{1, 2, 3}, wantEllipses: 0},
		{name: "current clamped into range", current: 99, total: 4, wantPages: []int{1, 3, 4}, wantEllipses: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Window(tt.current, tt.total)
			assert.Equal(t, tt.wantPages, pages(items))
			assert.Equal(t, tt.wantEllipses, ellipses(items))

			// A gap never produces two adjacent markers.
			for i := 1; i < len(items); i++ {
				if items[i].Ellipsis {
					assert.False(t, items[i-1].Ellipsis, "adjacent ellipses at %d", i)
				}
			}
		})
	}
}

func TestWindowMarksCurrent(t *testing.T) {
	items := Window(5, 10)
	var current []int
	for _, it := range items {
		if it.Current {
			current = append(current, it.Page)
		}
	}
	require.Equal(t, []int{5}, current)
}
