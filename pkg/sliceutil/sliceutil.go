// Package sliceutil provides membership helpers for string slices.
package sliceutil

// Contains reports whether item is an element of slice.
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
