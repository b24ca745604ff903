package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Authentication required")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrDuplicateShift      = NewDomainError("DUPLICATE_SHIFT", "A record for this location, date and shift already exists")
	ErrInsufficientFunds   = NewDomainError("INSUFFICIENT_FUNDS", "Safe balance is insufficient to cover the shortfall")
	ErrNoFunds             = NewDomainError("NO_FUNDS", "Nothing to deposit")
	ErrPersistence         = NewDomainError("PERSISTENCE_ERROR", "Storage operation failed")
)
