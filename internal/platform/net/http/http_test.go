package http

import (
	"context"
	"encoding/json"
	"net"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codg/internal/platform/config"
	perr "codg/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func serve(h stdhttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *stdhttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RoutesAndParams(t *testing.T) {
	r := AdaptChi(chi.NewRouter())
	var hits []string
	r.Route("/sessions", func(sr Router) {
		sr.Get("/{id}", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			hits = append(hits, "get:"+URLParam(req, "id"))
		})
		sr.Group(func(g Router) {
			g.Use(func(next stdhttp.Handler) stdhttp.Handler {
				return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
					hits = append(hits, "mw")
					next.ServeHTTP(w, req)
				})
			})
			g.Post("/", func(stdhttp.ResponseWriter, *stdhttp.Request) { hits = append(hits, "post") })
		})
		sr.Put("/{id}", func(stdhttp.ResponseWriter, *stdhttp.Request) { hits = append(hits, "put") })
		sr.Delete("/{id}", func(stdhttp.ResponseWriter, *stdhttp.Request) { hits = append(hits, "delete") })
	})
	r.Handle("/raw", stdhttp.HandlerFunc(func(stdhttp.ResponseWriter, *stdhttp.Request) { hits = append(hits, "raw") }))

	for _, c := range []struct{ method, path string }{
		{stdhttp.MethodGet, "/sessions/abc"},
		{stdhttp.MethodPost, "/sessions/"},
		{stdhttp.MethodPut, "/sessions/abc"},
		{stdhttp.MethodDelete, "/sessions/abc"},
		{stdhttp.MethodGet, "/raw"},
	} {
		serve(r.Mux(), c.method, c.path, "")
	}
	if got := strings.Join(hits, ","); got != "get:abc,mw,post,put,delete,raw" {
		t.Fatalf("hits %s", got)
	}
	if rec := serve(r.Mux(), stdhttp.MethodPatch, "/sessions/abc", ""); rec.Code != stdhttp.StatusMethodNotAllowed {
		t.Fatalf("patch status %d", rec.Code)
	}
}

func TestHandle_Responses(t *testing.T) {
	cases := []struct {
		name   string
		resp   Response
		status int
		code   perr.ErrorCode
	}{
		{"ok", OK(map[string]int{"n": 1}), stdhttp.StatusOK, 0},
		{"created", Created("x"), stdhttp.StatusCreated, 0},
		{"zero status", Response{Body: "x"}, stdhttp.StatusOK, 0},
		{"not found", Error(perr.NotFoundf("session %s", "abc")), stdhttp.StatusNotFound, perr.ErrorCodeNotFound},
		{"conflict", Error(perr.Newf(perr.ErrorCodeConflict, "closed")), stdhttp.StatusConflict, perr.ErrorCodeConflict},
	}
	for _, c := range cases {
		rec := serve(stdhttp.HandlerFunc(Handle(func(*stdhttp.Request) Response { return c.resp })), stdhttp.MethodGet, "/", "")
		if rec.Code != c.status {
			t.Fatalf("%s: status %d want %d", c.name, rec.Code, c.status)
		}
		env := decode(t, rec)
		if env.StatusCode != c.status || env.Code != c.code {
			t.Fatalf("%s: envelope %+v", c.name, env)
		}
	}

	rec := serve(stdhttp.HandlerFunc(Handle(func(*stdhttp.Request) Response {
		resp := NoContent()
		resp.Header = stdhttp.Header{"X-Trace": {"1"}}
		return resp
	})), stdhttp.MethodDelete, "/", "")
	if rec.Code != stdhttp.StatusNoContent || rec.Body.Len() != 0 || rec.Header().Get("X-Trace") != "1" {
		t.Fatalf("no content %d %q", rec.Code, rec.Body.String())
	}
}

type answerIn struct {
	Label string `json:"label" validate:"required,oneof=Left Direct Right"`
}

func TestJSONHandler(t *testing.T) {
	h := stdhttp.HandlerFunc(JSONHandler(func(_ *stdhttp.Request, in answerIn) (any, error) {
		if in.Label == "Direct" {
			return Created(in.Label), nil
		}
		return map[string]string{"label": in.Label}, nil
	}))

	rec := serve(h, stdhttp.MethodPost, "/", `{"label":"Left"}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("ok %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve(h, stdhttp.MethodPost, "/", `{"label":"Direct"}`); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("created %d", rec.Code)
	}

	rec = serve(h, stdhttp.MethodPost, "/", `{"label":"Up"}`)
	env := decode(t, rec)
	if rec.Code != stdhttp.StatusBadRequest || env.Code != perr.ErrorCodeValidation || env.Field != "label" {
		t.Fatalf("validation %d %+v", rec.Code, env)
	}

	rec = serve(h, stdhttp.MethodPost, "/", `{"label":`)
	if env := decode(t, rec); rec.Code != stdhttp.StatusBadRequest || env.Code != perr.ErrorCodeJSON {
		t.Fatalf("bad json %d %+v", rec.Code, env)
	}
}

func TestNoBodyHandler_Errors(t *testing.T) {
	r := AdaptChi(chi.NewRouter())
	GetJSON(r, "/boom", func(*stdhttp.Request) (any, error) { return nil, perr.Unavailablef("store down") })
	PostJSON(r, "/answer", func(_ *stdhttp.Request, in answerIn) (any, error) { return in, nil })

	rec := serve(r.Mux(), stdhttp.MethodGet, "/boom", "")
	if env := decode(t, rec); rec.Code != stdhttp.StatusServiceUnavailable || env.Error != "store down" {
		t.Fatalf("boom %d %+v", rec.Code, env)
	}
	if rec := serve(r.Mux(), stdhttp.MethodPost, "/answer", `{"label":"Right"}`); rec.Code != stdhttp.StatusOK {
		t.Fatalf("answer %d", rec.Code)
	}
}

func TestMountProfiler(t *testing.T) {
	on := AdaptChi(chi.NewRouter())
	MountProfiler(on, "/debug", true)
	if rec := serve(on.Mux(), stdhttp.MethodGet, "/debug/pprof/", ""); rec.Code != stdhttp.StatusOK {
		t.Fatalf("pprof index %d", rec.Code)
	}

	off := AdaptChi(chi.NewRouter())
	MountProfiler(off, "/debug", false)
	if rec := serve(off.Mux(), stdhttp.MethodGet, "/debug/pprof/", ""); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("disabled profiler %d", rec.Code)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Setenv("SRVTEST_ADDR", "127.0.0.1:0")
	t.Setenv("SRVTEST_SHUTDOWN_GRACE", "2s")
	s := NewServer(config.New().Prefix("SRVTEST_"), func(m *chi.Mux) {
		m.Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte("pong")) })
	})
	if s.Addr() != "127.0.0.1:0" {
		t.Fatalf("addr %q", s.Addr())
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := stdhttp.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
