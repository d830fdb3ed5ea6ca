package cpf

// CPF is a validated CPF number. The zero value is not a valid CPF and
// reports IsZero.
//
// Invariants:
//   - digits holds exactly 11 ASCII digits
//   - digits passes Validate
type CPF struct {
	digits string
}

// Parse normalizes s and returns a CPF when the digits are valid.
// The returned error is the one produced by Check.
func Parse(s string) (CPF, error) {
	d := Normalize(s)
	if err := Check(d); err != nil {
		return CPF{}, err
	}
	return CPF{digits: d}, nil
}

// MustParse is like Parse but panics on an invalid value.
// Use only in tests or for compile-time constants.
func MustParse(s string) CPF {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the formatted form, "ddd.ddd.ddd-dd". The zero value
// formats as "".
func (c CPF) String() string { return Format(c.digits) }

// Digits returns the 11 digits without punctuation.
func (c CPF) Digits() string { return c.digits }

// Masked returns the formatted form with all but the last four digits hidden.
func (c CPF) Masked() string { return Mask(c.digits) }

// IsZero reports whether c is the zero value.
func (c CPF) IsZero() bool { return c.digits == "" }

// MarshalText encodes c in its formatted form. The zero value encodes as an
// empty string.
func (c CPF) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts any punctuation. An empty input yields the zero value.
func (c *CPF) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = CPF{}
		return nil
	}
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
