// Package testkit holds the assertions and fixtures shared by package tests
package testkit

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// maxShown caps how much of a haystack MustContain prints
const maxShown = 2000

// MustPanic fails unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("want panic, got none")
		}
	}()
	fn()
}

// MustNotPanic fails if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails unless haystack contains needle
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	shown := haystack
	if len(shown) > maxShown {
		shown = shown[:maxShown] + "..."
	}
	t.Fatalf("want %q in:\n%s", needle, shown)
}

// MustNear fails unless got is within tol of want; NaN never matches
func MustNear(t *testing.T, what string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want %v within %g", what, got, want, tol)
	}
}

// WriteTemp writes data to name inside a per test directory and returns the path
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// Clock returns a clock stopped at at
func Clock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
