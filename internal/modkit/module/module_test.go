package module

import (
	"context"
	"testing"

	phttp "codg/internal/platform/net/http"
	"codg/internal/platform/testkit"
)

type reader interface {
	Trials(ctx context.Context, id string) ([]string, error)
}

type fakeReader struct{}

func (fakeReader) Trials(context.Context, string) ([]string, error) { return []string{"t1"}, nil }

type portSet struct {
	Reader reader
	hidden reader
}

type stub struct {
	name  string
	ports any
}

func (s stub) MountRoutes(phttp.Router) {}
func (s stub) Ports() any               { return s.ports }
func (s stub) Name() string             { return s.name }

func TestPortsOf(t *testing.T) {
	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil", nil, false},
		{"direct", fakeReader{}, true},
		{"struct field", portSet{Reader: fakeReader{}}, true},
		{"pointer to struct", &portSet{Reader: fakeReader{}}, true},
		{"nil pointer", (*portSet)(nil), false},
		{"only unexported", portSet{hidden: fakeReader{}}, false},
		{"scalar", 42, false},
	}
	for _, c := range cases {
		got, ok := PortsOf[reader](stub{ports: c.ports})
		if ok != c.ok {
			t.Fatalf("%s: ok=%v want %v", c.name, ok, c.ok)
		}
		if ok {
			if ts, _ := got.Trials(context.Background(), "s"); len(ts) != 1 {
				t.Fatalf("%s: wrong port", c.name)
			}
		}
	}
}

func TestMustPortsOf(t *testing.T) {
	testkit.MustNotPanic(t, func() { _ = MustPortsOf[reader](stub{ports: portSet{Reader: fakeReader{}}}) })
	testkit.MustPanic(t, func() { _ = MustPortsOf[reader](stub{name: "meta"}) })
}
