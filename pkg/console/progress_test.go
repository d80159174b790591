//go:build !integration

package console

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBar(t *testing.T) {
	t.Run("creates progress bar successfully", func(t *testing.T) {
		bar := NewProgressBar(12)

		require.NotNil(t, bar, "NewProgressBar should not return nil")
		assert.Equal(t, int64(12), bar.total, "Total should be set correctly")
		assert.Equal(t, int64(0), bar.current, "Current should start at 0")
	})

	t.Run("creates progress bar with zero total", func(t *testing.T) {
		bar := NewProgressBar(0)

		require.NotNil(t, bar, "NewProgressBar should not return nil even with zero total")
		assert.Equal(t, int64(0), bar.total, "Total should be 0")
	})
}

func TestProgressBarUpdate(t *testing.T) {
	tests := []struct {
		name             string
		total            int64
		current          int64
		expectedInNonTTY []string
	}{
		{
			name:             "no items done",
			total:            12,
			current:          0,
			expectedInNonTTY: []string{"0%", "(0/12)"},
		},
		{
			name:             "half done",
			total:            12,
			current:          6,
			expectedInNonTTY: []string{"50%", "(6/12)"},
		},
		{
			name:             "all done",
			total:            12,
			current:          12,
			expectedInNonTTY: []string{"100%", "(12/12)"},
		},
		{
			name:             "zero total edge case",
			total:            0,
			current:          0,
			expectedInNonTTY: []string{"100%", "(0/0)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewProgressBar(tt.total)
			output := bar.Update(tt.current)

			assert.NotEmpty(t, output, "Update should return non-empty string")

			// The terminal rendering is animated and not worth pinning;
			// only the plain fallback has a stable shape.
			if !isTTY() {
				for _, expected := range tt.expectedInNonTTY {
					assert.Contains(t, output, expected, "Output should contain expected text in non-TTY mode")
				}
			}

			assert.Equal(t, tt.current, bar.current, "Current should be updated after Update()")
		})
	}
}

func TestProgressBarMultipleUpdates(t *testing.T) {
	bar := NewProgressBar(10)

	for _, value := range []int64{0, 2, 5, 7, 10} {
		output := bar.Update(value)
		assert.NotEmpty(t, output, "Each update should produce output")
		assert.Equal(t, value, bar.current, "Current should track the latest update")
	}
}

func TestProgressBarPercentageCalculation(t *testing.T) {
	tests := []struct {
		name            string
		total           int64
		current         int64
		expectedPercent int
	}{
		{name: "start", total: 8, current: 0, expectedPercent: 0},
		{name: "one of eight", total: 8, current: 1, expectedPercent: 12},
		{name: "quarter", total: 8, current: 2, expectedPercent: 25},
		{name: "half", total: 8, current: 4, expectedPercent: 50},
		{name: "complete", total: 8, current: 8, expectedPercent: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if isTTY() {
				t.Skip("Test requires non-TTY mode")
			}
			bar := NewProgressBar(tt.total)
			output := bar.Update(tt.current)

			expectedStr := fmt.Sprintf("%d%%", tt.expectedPercent)
			assert.Contains(t, output, expectedStr, "Output should contain correct percentage")
		})
	}
}

func TestProgressBarEdgeCases(t *testing.T) {
	t.Run("current exceeds total", func(t *testing.T) {
		bar := NewProgressBar(4)
		output := bar.Update(6)

		assert.NotEmpty(t, output, "Should handle current exceeding total gracefully")
		if !isTTY() {
			assert.Contains(t, output, "150%", "Should show percentage over 100")
		}
	})

	t.Run("negative current value", func(t *testing.T) {
		bar := NewProgressBar(4)
		output := bar.Update(-1)

		assert.NotEmpty(t, output, "Should handle negative values gracefully")
	})
}
