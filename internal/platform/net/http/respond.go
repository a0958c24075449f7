package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "codg/internal/platform/net"
	"codg/internal/platform/net/http/bind"
)

// Envelope is the body shape of every JSON reply
type Envelope = pnet.Envelope

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return style handlers produce
// A Body holding an error decides the status itself
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK is a 200 with data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created is a 201 with data
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent is a bodiless 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error maps err to its status and envelope
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a return style handler
func Handle(h func(*stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())
	if err, ok := resp.Body.(error); ok && err != nil {
		env := pnet.Failure(err, reqID)
		JSON(w, env.StatusCode, env)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	JSON(w, status, pnet.Success(status, resp.Body, reqID))
}

// JSONHandler binds and validates a T body before calling fn
// fn may return a Response to pick its own status, anything else is a 200
func JSONHandler[T any](fn func(*stdhttp.Request, T) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// NoBodyHandler calls fn without reading the body
func NoBodyHandler(fn func(*stdhttp.Request) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response { return result(fn(r)) })
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// GetJSON mounts a bodiless GET
func GetJSON(r Router, path string, h func(*stdhttp.Request) (any, error)) {
	r.Get(path, NoBodyHandler(h))
}

// PostJSON mounts a POST taking a T body
func PostJSON[T any](r Router, path string, h func(*stdhttp.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}
