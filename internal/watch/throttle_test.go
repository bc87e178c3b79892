package watch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldPersist(t *testing.T) {
	tests := []struct {
		name      string
		lastSaved float64
		current   float64
		total     float64
		want      bool
	}{
		{"small step", 60, 61, 120, false},
		{"exactly threshold", 60, 65, 120, false},
		{"above threshold", 60, 65.5, 120, true},
		{"rewind", 60, 40, 120, true},
		{"near the end", 116, 117, 120, true},
		{"end window boundary", 114, 115, 120, true},
		{"unknown total", 60, 61, 0, false},
		{"never saved", math.Inf(-1), 3, 120, true},
		{"nan offset", 60, math.NaN(), 120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldPersist(tt.lastSaved, tt.current, tt.total))
		})
	}
}

func TestPolicy_Custom(t *testing.T) {
	p := Policy{MinDelta: 30, EndWindow: 0}
	assert.False(t, p.ShouldPersist(0, 20, 100))
	assert.True(t, p.ShouldPersist(0, 31, 100))
	assert.True(t, p.ShouldPersist(90, 100, 100))
}
