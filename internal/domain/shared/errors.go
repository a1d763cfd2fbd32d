package shared

// DomainError is an error with a stable machine-readable code. The HTTP
// layer maps codes to status codes; the message is safe to show to callers.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a domain error with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors shared across aggregates. Package-specific failures use
// NewDomainError directly.
var (
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrExceedsBalance      = NewDomainError("EXCEEDS_BALANCE", "Payment exceeds the remaining balance")
)
