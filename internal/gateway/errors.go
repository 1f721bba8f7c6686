// AngelaMos | 2026
// errors.go

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carterperez-dev/agency-portal/internal/core"
)

// ErrUnauthorized is returned after the backend answered 401 and the
// caller's session has been cleared.
var ErrUnauthorized = errors.New("backend rejected the session")

const noResponseMessage = "no response from server, please check your connection"

type Kind int

const (
	// KindResponse means the backend answered with an error.
	KindResponse Kind = iota + 1
	// KindNoResponse means the request went out but nothing came back.
	KindNoResponse
	// KindLocal means the request was never sent.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindNoResponse:
		return "no_response"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindResponse:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("request failed with status code %d", e.Status)
	case KindNoResponse:
		return noResponseMessage
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "request could not be sent"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError is the single place user-facing error text is derived from a
// failed backend call.
func HandleError(err error) ErrorResponse {
	if err == nil {
		return ErrorResponse{}
	}

	var gwErr *Error
	if errors.As(err, &gwErr) {
		return ErrorResponse{Error: gwErr.Error()}
	}

	return ErrorResponse{Error: err.Error()}
}

func responseError(status int, message string) *Error {
	e := &Error{Kind: KindResponse, Status: status, Message: message}
	if status == http.StatusUnauthorized {
		e.Err = ErrUnauthorized
	}
	return e
}

func transportError(ctx context.Context, err error) *Error {
	if ctx.Err() != nil {
		return &Error{Kind: KindLocal, Err: ctx.Err()}
	}
	return &Error{Kind: KindNoResponse, Err: err}
}

func localError(format string, err error) *Error {
	return &Error{Kind: KindLocal, Err: fmt.Errorf(format, err)}
}

// upstreamStatus maps a failed call to the status the portal answers with.
func upstreamStatus(err error) int {
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		return http.StatusBadGateway
	}

	switch gwErr.Kind {
	case KindResponse:
		if gwErr.Status >= http.StatusBadRequest &&
			gwErr.Status < http.StatusInternalServerError {
			return gwErr.Status
		}
		return http.StatusBadGateway
	case KindNoResponse:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func upstreamAppError(err error) *core.AppError {
	return core.UpstreamError(HandleError(err).Error, upstreamStatus(err))
}
