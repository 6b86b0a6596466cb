package relay

import (
	"errors"
	"fmt"
)

var (
	ErrSpam            = errors.New("spam detected")
	ErrInvalidFormType = errors.New("invalid form type")
)

type invalidTypeError struct{ name string }

func (e *invalidTypeError) Error() string { return ErrInvalidFormType.Error() + ": " + e.name }
func (e *invalidTypeError) Unwrap() error { return ErrInvalidFormType }

// StoreError reports a failure of the backing sheet store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err came from the backing store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// Message is the text shown to the submitter for err.
func Message(err error) string {
	var it *invalidTypeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSpam):
		return "Spam detected"
	case errors.As(err, &it):
		return "Invalid form type: " + it.name
	default:
		return err.Error()
	}
}
