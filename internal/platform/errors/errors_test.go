package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%d) = %d want %d", c.code, got, c.want)
		}
	}
}

func TestError_Basics(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render %q", nilErr.Error())
	}

	src := stderrs.New("root")
	e := Wrapf(src, ErrorCodeDB, "save %s", "trial")
	if e.Error() != "save trial: root" {
		t.Fatalf("render %q", e.Error())
	}
	if !stderrs.Is(e, src) || Root(e) != src {
		t.Fatalf("cause lost")
	}
	if !IsCode(e, ErrorCodeDB) || IsCode(nil, ErrorCodeUnknown) {
		t.Fatalf("IsCode")
	}
	if _, ok := As(src); ok {
		t.Fatalf("foreign error matched As")
	}
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
}

func TestWithFieldAndOp_CopyOnWrite(t *testing.T) {
	base := Validationf("bad level")
	withField := WithField(base, "gaze_level")
	withOp := WithOp(withField, "import")

	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("base mutated: %q", e.Field())
	}
	e, _ := As(withOp)
	if e.Field() != "gaze_level" || e.Op() != "import" || e.Code() != ErrorCodeValidation {
		t.Fatalf("got field=%q op=%q code=%d", e.Field(), e.Op(), e.Code())
	}

	foreign := stderrs.New("plain")
	if WithField(foreign, "x") != foreign || WithOp(foreign, "x") != foreign {
		t.Fatalf("foreign errors should pass through")
	}
}

func TestWire(t *testing.T) {
	if (WireFrom(nil) != Wire{}) {
		t.Fatalf("nil wire")
	}
	w := WireFrom(WithField(Wrap(stderrs.New("driver detail"), ErrorCodeNotFound, "session not found"), "id"))
	if w.Code != ErrorCodeNotFound || w.Message != "session not found" || w.Field != "id" {
		t.Fatalf("wire %+v", w)
	}
	w = WireFrom(fmt.Errorf("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("foreign wire %+v", w)
	}

	status, body := HTTP(fmt.Errorf("ctx: %w", Newf(ErrorCodeConflict, "session complete")))
	if status != http.StatusConflict || body.Code != ErrorCodeConflict {
		t.Fatalf("HTTP %d %+v", status, body)
	}
	if status, _ := HTTP(nil); status != http.StatusOK {
		t.Fatalf("HTTP(nil) %d", status)
	}
}

func TestSugar(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{Validationf("x"), ErrorCodeValidation},
		{Newf(ErrorCodeConflict, "x"), ErrorCodeConflict},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unavailablef("x"), ErrorCodeUnavailable},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.code {
			t.Fatalf("%v: code %d want %d", c.err, CodeOf(c.err), c.code)
		}
	}
}
