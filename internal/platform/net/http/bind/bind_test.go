package bind

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "codg/internal/platform/errors"
)

type trialIn struct {
	Face   string  `json:"face_id" validate:"required,max=16"`
	Level  float64 `json:"gaze_level" validate:"min=-90,max=90"`
	Answer string  `json:"response" validate:"required,test_answer"`
	Note   string  `json:"-"`
}

func init() {
	_ = RegisterValidation("test_answer", func(fl FieldLevel) bool {
		s := fl.Field().String()
		return s == "Left" || s == "Direct" || s == "Right"
	}, "{0} must be Left, Direct or Right")
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	got, err := ParseJSON[trialIn](post(`{"face_id":"M1","gaze_level":-3,"response":"Left"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Face != "M1" || got.Level != -3 || got.Answer != "Left" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{"empty", ``, perr.ErrorCodeJSON, "", "empty body"},
		{"broken", `{"face_id":`, perr.ErrorCodeJSON, "", "invalid JSON"},
		{"unknown field", `{"face_id":"M1","response":"Left","mood":1}`, perr.ErrorCodeJSON, "", "unknown field"},
		{"trailing", `{"face_id":"M1","response":"Left"} {}`, perr.ErrorCodeJSON, "", "trailing"},
		{"missing face", `{"response":"Left"}`, perr.ErrorCodeValidation, "face_id", "face_id is a required field"},
		{"level range", `{"face_id":"M1","gaze_level":120,"response":"Left"}`, perr.ErrorCodeValidation, "gaze_level", "gaze_level must be at most 90"},
		{"custom tag", `{"face_id":"M1","response":"Up"}`, perr.ErrorCodeValidation, "response", "response must be Left, Direct or Right"},
	}
	for _, c := range cases {
		_, err := ParseJSON[trialIn](post(c.body))
		if !perr.IsCode(err, c.code) {
			t.Fatalf("%s: code %d want %d (%v)", c.name, perr.CodeOf(err), c.code, err)
		}
		if !strings.Contains(err.Error(), c.msg) {
			t.Fatalf("%s: message %q lacks %q", c.name, err.Error(), c.msg)
		}
		if e, _ := perr.As(err); e.Field() != c.field {
			t.Fatalf("%s: field %q want %q", c.name, e.Field(), c.field)
		}
	}
}

func TestParseJSON_NilBody(t *testing.T) {
	r := post("")
	r.Body = nil
	if _, err := ParseJSON[trialIn](r); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("nil body: %v", err)
	}
}

func TestStruct_NonStruct(t *testing.T) {
	if err := Struct(42); perr.CodeOf(err) != perr.ErrorCodeUnknown || err == nil {
		t.Fatalf("want internal error for non struct, got %v", err)
	}
}

func TestFieldAndMessage_Foreign(t *testing.T) {
	if f, m := FieldAndMessage(errors.New("plain")); f != "" || m != "plain" {
		t.Fatalf("got %q %q", f, m)
	}
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil: %q %q", f, m)
	}
}
