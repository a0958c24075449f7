package version

import (
	"runtime"
	"testing"

	"codg/internal/platform/testkit"
)

func TestInfo(t *testing.T) {
	testkit.Swap(t, &version, "v1.2.3")

	b := Info("codg-api")
	if b.Service != "codg-api" || b.Version != "v1.2.3" || b.Go != runtime.Version() {
		t.Fatalf("info %+v", b)
	}
	if b.String() != "codg-api v1.2.3 (none, unknown, "+runtime.Version()+")" {
		t.Fatalf("string %q", b.String())
	}
}
