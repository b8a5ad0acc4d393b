package rtfserr

import "fmt"

// RTFSError is the structured, value-bearing error described in §7: a
// keyword kind, a human message, and optional structured data. It
// implements the standard error interface so it can flow through Go
// call chains, and carries enough to be reconstructed as a runtime Error
// value for TryCatch.
type RTFSError struct {
	Code    Code
	Kind    Kind
	Message string
	Data    map[string]interface{}
	Cause   error
}

func (e *RTFSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *RTFSError) Unwrap() error { return e.Cause }

// New constructs an RTFSError from a registered Code, filling in its Kind
// from the registry.
func New(code Code, message string, data map[string]interface{}) *RTFSError {
	info := Registry[code]
	return &RTFSError{Code: code, Kind: info.Kind, Message: message, Data: data}
}

// Wrap attaches a lower-level cause to a new RTFSError.
func Wrap(code Code, message string, cause error) *RTFSError {
	e := New(code, message, nil)
	e.Cause = cause
	return e
}

func Arity(expected, got int, fn string) *RTFSError {
	return New(RT001, fmt.Sprintf("%s: expected %d argument(s), got %d", fn, expected, got),
		map[string]interface{}{"fn": fn, "expected": expected, "got": got})
}

func ArityRange(min, max, got int, fn string) *RTFSError {
	return New(RT001, fmt.Sprintf("%s: expected between %d and %d argument(s), got %d", fn, min, max, got),
		map[string]interface{}{"fn": fn, "min": min, "max": max, "got": got})
}

func TypeMismatch(expected, found string) *RTFSError {
	return New(RT002, fmt.Sprintf("expected %s, found %s", expected, found),
		map[string]interface{}{"expected": expected, "found": found})
}

func UndefinedSymbol(name string) *RTFSError {
	return New(RT003, fmt.Sprintf("undefined symbol: %s", name), map[string]interface{}{"name": name})
}

func DivisionByZero() *RTFSError {
	return New(RT004, "division by zero", nil)
}

func IndexOutOfBounds(index, length int) *RTFSError {
	return New(RT005, fmt.Sprintf("index %d out of bounds for length %d", index, length),
		map[string]interface{}{"index": index, "length": length})
}

func NoMatch() *RTFSError {
	return New(RT006, "no match clause matched", nil)
}

func Resource(resourceType, message string) *RTFSError {
	return New(RT007, message, map[string]interface{}{"resource_type": resourceType})
}

func Module(message string) *RTFSError {
	return New(MOD001, message, nil)
}

func NotCallable(got string) *RTFSError {
	return New(RT010, fmt.Sprintf("value of type %s is not callable", got), map[string]interface{}{"type": got})
}

func Internal(message string) *RTFSError {
	return New(RT015, message, nil)
}
