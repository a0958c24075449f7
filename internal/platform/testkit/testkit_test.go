package testkit

import (
	"os"
	"testing"
	"time"
)

func TestPanics(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, "CoDG: 7.360 (L=-3.680, R=3.680)", "R=3.680")
}

func TestMustNear(t *testing.T) {
	t.Parallel()
	MustNear(t, "x_left", -3.6801, -3.68, 1e-3)
}

func TestWriteTemp(t *testing.T) {
	t.Parallel()
	p := WriteTemp(t, "design.yaml", []byte("repeats: 2\n"))
	got, err := os.ReadFile(p)
	if err != nil || string(got) != "repeats: 2\n" {
		t.Fatalf("read back %q %v", got, err)
	}
}

func TestClock(t *testing.T) {
	t.Parallel()
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	now := Clock(at)
	if !now().Equal(at) || !now().Equal(at) {
		t.Fatalf("clock moved")
	}
}
