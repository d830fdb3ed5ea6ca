package cpf

import (
	"errors"
	"strings"

	errs "github.com/vortex-fintech/go-cpf/errors"
)

// Field is the field name used in invariant errors returned by Check.
const Field = "cpf"

// Stable reason codes for rejected values.
const (
	ReasonInvalidLength     = "invalid_length"
	ReasonRepeatedDigits    = "repeated_digits"
	ReasonInvalidCheckDigit = "invalid_check_digit"
)

var (
	ErrInvalidLength     = errors.New("cpf: must have exactly 11 digits")
	ErrRepeatedDigits    = errors.New("cpf: all digits are identical")
	ErrInvalidCheckDigit = errors.New("cpf: check digit mismatch")
)

// Validate reports whether the digits of input form a valid CPF.
// It never panics and treats punctuation as absent.
func Validate(input string) bool {
	return verify(Normalize(input)) == nil
}

// Check is Validate with a reason. It returns nil for a valid CPF, otherwise
// a domain invariant error on Field that unwraps to one of ErrInvalidLength,
// ErrRepeatedDigits or ErrInvalidCheckDigit.
func Check(input string) error {
	if err := verify(Normalize(input)); err != nil {
		return errs.DomainInvariantOf(err, Field, Reason(err))
	}
	return nil
}

// Reason maps an error returned by Check (or one of the sentinels) to its
// reason code. It returns "" for nil and for unrelated errors.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLength):
		return ReasonInvalidLength
	case errors.Is(err, ErrRepeatedDigits):
		return ReasonRepeatedDigits
	case errors.Is(err, ErrInvalidCheckDigit):
		return ReasonInvalidCheckDigit
	default:
		return ""
	}
}

// CheckDigits returns the two check digits for the first nine digits of a
// CPF. ok is false unless base normalizes to exactly nine digits.
func CheckDigits(base string) (digits string, ok bool) {
	d := Normalize(base)
	if len(d) != Length-2 {
		return "", false
	}
	first := checkDigit(d)
	second := checkDigit(d + string(first))
	return string([]byte{first, second}), true
}

// verify expects d to be digits only.
func verify(d string) error {
	if len(d) != Length {
		return ErrInvalidLength
	}
	if strings.Count(d, d[:1]) == Length {
		return ErrRepeatedDigits
	}
	if checkDigit(d[:9]) != d[9] || checkDigit(d[:10]) != d[10] {
		return ErrInvalidCheckDigit
	}
	return nil
}

// checkDigit weights base from len(base)+1 down to 2. A remainder of 10 or 11
// collapses to 0.
func checkDigit(base string) byte {
	top := len(base) + 1
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (top - i)
	}

	r := sum * 10 % 11
	if r == 10 || r == 11 {
		r = 0
	}
	return byte('0' + r)
}
