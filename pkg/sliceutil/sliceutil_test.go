//go:build !integration

package sliceutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		item     string
		expected bool
	}{
		{
			name:     "item exists in slice",
			slice:    []string{"read", "write", "none"},
			item:     "write",
			expected: true,
		},
		{
			name:     "item does not exist in slice",
			slice:    []string{"read", "write", "none"},
			item:     "admin",
			expected: false,
		},
		{
			name:     "empty slice",
			slice:    []string{},
			item:     "read",
			expected: false,
		},
		{
			name:     "nil slice",
			slice:    nil,
			item:     "read",
			expected: false,
		},
		{
			name:     "empty string item exists",
			slice:    []string{"", "read"},
			item:     "",
			expected: true,
		},
		{
			name:     "empty string item does not exist",
			slice:    []string{"read", "write"},
			item:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Contains(tt.slice, tt.item)
			assert.Equal(t, tt.expected, result,
				"Contains should return correct value for slice %v and item %q", tt.slice, tt.item)
		})
	}
}

func TestContains_Duplicates(t *testing.T) {
	slice := []string{"actions", "github", "actions"}

	assert.True(t, Contains(slice, "actions"), "should find item despite duplicates")
	assert.False(t, Contains(slice, "docker"), "should not find absent item")
}

func BenchmarkContains(b *testing.B) {
	slice := []string{"push", "pull_request", "schedule", "workflow_dispatch", "release"}
	for b.Loop() {
		Contains(slice, "schedule")
	}
}
