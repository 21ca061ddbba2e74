package custom_error

import "fmt"

type CustomError interface {
	Error() string
}

// UniqueViolationError reports a duplicate row rejected by a unique
// constraint (postgres code 23505).
type UniqueViolationError struct {
	message string
	code    string
}

// ForeignKeyViolationError reports a write that references a missing
// row or a delete blocked by dependents (postgres code 23503).
type ForeignKeyViolationError struct {
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

// WrapDBError maps a postgres error code to a typed error so handlers
// can pick a response status without parsing driver messages.
func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{message: message, code: code}
	case "23503":
		return &ForeignKeyViolationError{message: "Record is referenced by other resources: " + message, code: code}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
