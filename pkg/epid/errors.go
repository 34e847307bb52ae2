package epid

import (
	"fmt"

	"github.com/go-errors/errors"
)

var (
	// ErrBadArgument is returned for missing inputs and for points that fail validation.
	// It deliberately does not say which input was rejected.
	ErrBadArgument = errors.New("epid: bad argument")

	// ErrSignatureInvalid is returned when a proof does not verify.
	ErrSignatureInvalid = errors.New("epid: signature invalid")

	// ErrSignatureRevoked is returned when a non-revocation proof shows that the signer's key is revoked.
	ErrSignatureRevoked = errors.New("epid: signature revoked")

	// ErrUnexpected is returned when the randomness source, the module, or the arithmetic fails.
	// It is never turned into one of the errors above.
	ErrUnexpected = errors.New("epid: unexpected failure")
)

// classError ties a cause to an error class, so that errors.Is matches both.
type classError struct {
	class error
	cause error
}

func (e *classError) Error() string {
	if e.cause == nil {
		return e.class.Error()
	}
	return fmt.Sprintf("%v: %v", e.class, e.cause)
}

func (e *classError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.class}
	}
	return []error{e.class, e.cause}
}

// Unexpected classifies cause as ErrUnexpected, recording the stack of the caller.
func Unexpected(prefix string, cause error) error {
	return errors.WrapPrefix(&classError{class: ErrUnexpected, cause: cause}, prefix, 1)
}

// BadArgument classifies cause as ErrBadArgument, cause may be nil.
// The cause must not depend on which of several points failed validation.
func BadArgument(prefix string, cause error) error {
	return errors.WrapPrefix(&classError{class: ErrBadArgument, cause: cause}, prefix, 1)
}

// RevokedError reports the SigRl entry whose non-revocation proof failed.
type RevokedError struct {
	Index int
}

func (e *RevokedError) Error() string {
	return fmt.Sprintf("%v: sigrl entry %d", ErrSignatureRevoked, e.Index)
}

func (e *RevokedError) Is(target error) bool { return target == ErrSignatureRevoked }
