package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/xdmatvec/internal/bench"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// classify maps a run failure to an HTTP status and error type.
func classify(err error) (status int, errType, code string) {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, bench.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_request_error", ""
	case xdma.IsFatal(err), errors.Is(err, xdma.ErrMap), errors.Is(err, xdma.ErrUnsupported):
		return http.StatusServiceUnavailable, "hardware_error", "device_unavailable"
	case errors.Is(err, xdma.ErrTransfer), errors.Is(err, xdma.ErrShortTransfer):
		return http.StatusBadGateway, "hardware_error", "transfer_failed"
	default:
		return http.StatusInternalServerError, "server_error", ""
	}
}
