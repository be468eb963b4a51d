// Package fault classifies failures of the club API into the categories the
// resource stores act on: auth, network, server and validation.
package fault

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Kind is the category of a failed remote or local operation.
type Kind int

const (
	KindServer Kind = iota
	KindAuth
	KindNetwork
	KindValidation
)

// String returns the lowercase category name.
func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	default:
		return "server"
	}
}

// Retryable reports whether the user may reasonably try again unchanged.
func (k Kind) Retryable() bool {
	return k == KindNetwork
}

var (
	// ErrNoToken means no bearer token is stored (or it has expired).
	ErrNoToken = errors.New("no session token")

	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid input")
)

// FetchError is a classified failure of a gateway call.
type FetchError struct {
	Kind    Kind
	Op      string // "list", "create", "update", "delete"
	Status  int    // HTTP status, zero when no response was received
	Message string // server-provided message or a generic fallback
	Err     error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Status > 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports a local pre-check failure or a 4xx rejection that
// names a field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports an operation on an identifier the store does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ClassifyStatus maps a non-2xx HTTP status to a Kind.
func ClassifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	default:
		return KindServer
	}
}

// FromStatus builds a FetchError for an HTTP error response.
func FromStatus(op string, status int, message string) *FetchError {
	if strings.TrimSpace(message) == "" {
		message = genericMessage(status)
	}
	return &FetchError{Kind: ClassifyStatus(status), Op: op, Status: status, Message: message}
}

// FromTransport classifies an error returned before a response was read.
// A missing token is an auth failure; everything else is a network failure.
func FromTransport(op string, err error) *FetchError {
	if errors.Is(err, ErrNoToken) {
		return &FetchError{Kind: KindAuth, Op: op, Message: "sign in required", Err: err}
	}
	return &FetchError{Kind: KindNetwork, Op: op, Message: describeTransport(err), Err: err}
}

// Malformed reports a 2xx response whose body could not be decoded.
func Malformed(op string, status int, err error) *FetchError {
	return &FetchError{Kind: KindServer, Op: op, Status: status, Message: "malformed response", Err: err}
}

// KindOf extracts the Kind of err. Local validation and not-found errors are
// reported as KindValidation.
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return 0, false
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	if errors.Is(err, ErrNoToken) {
		return KindAuth, true
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		return KindValidation, true
	}
	return 0, false
}

// IsAuth reports whether err requires the user to sign in again.
func IsAuth(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindAuth
}

// UserMessage renders err for a notification line.
func UserMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case KindAuth:
			return "session expired, sign in again"
		case KindNetwork:
			return "could not reach the server (" + fe.Message + "), try again"
		case KindValidation:
			return "rejected: " + fe.Message
		default:
			return "server error: " + fe.Message
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func describeTransport(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "host not found"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "timeout"
	}
	if strings.Contains(err.Error(), "connection refused") {
		return "connection refused"
	}
	return "connection failed"
}

func genericMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("unexpected status %d", status)
}
