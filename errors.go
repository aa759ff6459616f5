package discogs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNilRequest is returned when a facade method receives a nil request.
// No network call is made.
var ErrNilRequest = errors.New("discogs: request must not be nil")

// ErrInvalidArgument matches every [*ValidationError] via [errors.Is].
var ErrInvalidArgument = errors.New("discogs: invalid argument")

// ErrTooLarge is wrapped by the [*RequestError] returned when a response body
// is larger than the caller's limit.
var ErrTooLarge = errors.New("discogs: response too large")

// ErrNoPage is returned when a pagination link is absent.
var ErrNoPage = errors.New("discogs: no such page")

// ValidationError reports a request field that failed validation before
// dispatch.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("discogs: invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is [ErrInvalidArgument].
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// RequestError is a client-side failure: a 4xx status, or a transport or
// file I/O failure before a status was received (StatusCode 0).
type RequestError struct {
	Method     string
	URL        string
	StatusCode int

	// Message is the "message" field of the Discogs error body, if any.
	Message string
	Body    []byte
	Err     error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("discogs: %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("discogs: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.detail())
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) detail() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// ResponseError is a service-side failure (5xx status).
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("discogs: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

// DecodeError reports a response body that could not be parsed.
type DecodeError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("discogs: decoding response from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403 from the API.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// maxErrorBody bounds how much of an error response is retained.
const maxErrorBody = 64 << 10

// statusError classifies a non-2xx response. It consumes the body.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	method, target := requestLine(resp)
	if resp.StatusCode >= 500 {
		return &ResponseError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    payload.Message,
			Body:       body,
		}
	}
	return &RequestError{
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Message:    payload.Message,
		Body:       body,
	}
}

func requestLine(resp *http.Response) (string, string) {
	if resp.Request == nil {
		return "", ""
	}
	return resp.Request.Method, redactURL(resp.Request.URL)
}
