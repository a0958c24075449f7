package testkit

import (
	"sync"
	"testing"
)

var seamMu sync.Mutex

// Swap points target at replacement until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process wide lock for the rest of the test
// Use it in tests that touch global state such as the module registry or the root logger
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}
