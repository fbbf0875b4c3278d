package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable.
// Nothing in this module retries; the classification is for callers.
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// Transport operations reported in TransportError.Op
const (
	OpEncode  = "encode"  // request body could not be marshalled
	OpRequest = "request" // request could not be built (bad URL, method)
	OpSend    = "send"    // connection, DNS, TLS, timeout or cancellation
	OpDecode  = "decode"  // 2xx body could not be decoded into the target type
)

// TransportError means the HTTP exchange could not be completed, or the
// server's success answer was corrupt. The server never authoritatively
// rejected the request.
type TransportError struct {
	Op  string // One of OpEncode, OpRequest, OpSend, OpDecode
	Err error  // Underlying error
}

func (e *TransportError) Error() string {
	return "transport " + e.Op + ": " + e.Err.Error()
}

// IsRetriable reports true only for send failures. Encoding and decoding
// failures will repeat identically.
func (e *TransportError) IsRetriable() bool {
	return e.Op == OpSend
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a TransportError for op.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// APIError is a definitive non-2xx answer from the server.
// Message is the raw response body text, never interpreted as JSON.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
}

// IsRetriable is true for 429 and 5xx responses.
func (e *APIError) IsRetriable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// AsAPIError unwraps err to an *APIError when there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// InvalidOrderError is raised when an order cannot be built, e.g. the book
// cannot fill the requested notional.
type InvalidOrderError struct {
	Reason string
	Err    error
}

func (e *InvalidOrderError) Error() string {
	return "invalid order: " + e.Reason
}

func (e *InvalidOrderError) IsRetriable() bool {
	return false
}

func (e *InvalidOrderError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrInsufficientLiquidity is wrapped by InvalidOrderError when the book
	// cannot fill the requested amount.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInvalidSide is returned when a side is neither BUY nor SELL.
	ErrInvalidSide = errors.New("invalid side")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)

// UnknownErrorMessage replaces an error body that could not be read.
const UnknownErrorMessage = "Unknown error"
