package net

import (
	"net/http"

	perr "codg/internal/platform/errors"
)

// Envelope wraps every JSON body the API returns
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Success builds a data envelope for status
func Success(status int, data any, reqID string) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// Failure builds an error envelope, nil err is a 200 with no data
func Failure(err error, reqID string) Envelope {
	if err == nil {
		return Success(http.StatusOK, nil, reqID)
	}
	status, w := perr.HTTP(err)
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}
