package durations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNiceDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0 seconds"},
		{1 * time.Second, "1 second"},
		{30 * time.Second, "30 seconds"},
		{1 * time.Minute, "1 minute"},
		{90 * time.Second, "1 minute 30 seconds"},
		{10 * time.Minute, "10 minutes"},
		{1 * time.Hour, "1 hour"},
		{25 * time.Hour, "1 day 1 hour"},
		{49*time.Hour + 61*time.Second, "2 days 1 hour 1 minute 1 second"},
	}

	for _, curr := range tests {
		t.Run(curr.expected, func(t *testing.T) {
			assert.Equal(t, curr.expected, NiceDuration(curr.input))
		})
	}
}
