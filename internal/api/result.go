package api

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/horae/internal/client"
)

// ErrorKind classifies why a gateway call did not succeed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNetwork
	KindUnauthorized
	KindNotFound
	KindRejected
	KindServer
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindRejected:
		return "rejected"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Result is the outcome of a gateway call: the decoded payload, or an error kind with
// the zero payload. It replaces "null on any failure" while still letting callers
// render every failure the same way.
type Result[T any] struct {
	Value T
	Kind  ErrorKind
	Err   error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Kind == KindNone
}

// Message returns generic for any failure and "" on success.
func (r Result[T]) Message(generic string) string {
	if r.OK() {
		return ""
	}
	return generic
}

func classify(err error) ErrorKind {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindUnauthorized
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return KindRejected
		default:
			return KindServer
		}
	}

	// transport failures, cancellation and timeouts alike
	return KindNetwork
}
