package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAdvances(t *testing.T) {
	tests := []struct {
		from string
		next string
		want bool
	}{
		{StatusPending, StatusDownloaded, true},
		{StatusPending, StatusCompleted, true},
		{StatusDownloaded, StatusConfirmed, true},
		{StatusDownloaded, StatusDownloaded, false},
		{StatusDownloaded, StatusPending, false},
		{StatusCompleted, StatusDownloaded, false},
		{"bogus", StatusDownloaded, false},
		{StatusPending, "bogus", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusAdvances(tt.from, tt.next),
			"%s -> %s", tt.from, tt.next)
	}
}
