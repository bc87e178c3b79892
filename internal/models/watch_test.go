package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchState_ResumeOffset(t *testing.T) {
	tests := []struct {
		name     string
		progress int64
		total    int64
		want     int64
	}{
		{"rewinds 20 seconds", 100, 120, 80},
		{"near start", 15, 120, 0},
		{"exactly 20", 20, 120, 0},
		{"progress beyond total", 130, 120, 0},
		{"unknown total", 300, 0, 280},
		{"not started", 0, 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &WatchState{Progress: tt.progress, TotalDuration: tt.total}
			assert.Equal(t, tt.want, s.ResumeOffset())
		})
	}
}

func TestWatchState_PercentAndCanResume(t *testing.T) {
	s := &WatchState{Progress: 60, TotalDuration: 120}
	assert.Equal(t, 50, s.Percent())
	assert.True(t, s.CanResume())

	done := &WatchState{Progress: 119, TotalDuration: 120}
	assert.False(t, done.CanResume())

	var empty *WatchState
	assert.Zero(t, empty.Percent())
	assert.False(t, empty.CanResume())
}

func TestNewWatchStateResponse(t *testing.T) {
	resp := NewWatchStateResponse(&WatchState{Progress: 3723 + 20, TotalDuration: 7200})
	assert.True(t, resp.CanResume)
	assert.Equal(t, int64(3723), resp.ResumeOffset)
	assert.Equal(t, "1 ч. 2 м. 3 сек.", resp.ResumeLabel)

	fresh := NewWatchStateResponse(&WatchState{})
	assert.False(t, fresh.CanResume)
	assert.Empty(t, fresh.ResumeLabel)
}
