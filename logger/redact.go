package logger

import (
	"strings"
	"unicode"

	"github.com/vortex-fintech/go-cpf/cpf"
)

const redacted = "[REDACTED]"

var secretTokens = map[string]struct{}{
	"password": {},
	"pass":     {},
	"passcode": {},
	"secret":   {},
	"token":    {},
	"otp":      {},
	"pin":      {},
}

// RedactFields copies fields for logging. Values under a secret-looking key
// become [REDACTED] (empty stays empty so a missing value is still visible)
// and values under a cpf key are masked with cpf.Mask.
func RedactFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}

	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch classify(k) {
		case keySecret:
			if v != "" {
				v = redacted
			}
		case keyCPF:
			v = cpf.Mask(v)
		}
		out[k] = v
	}
	return out
}

type keyKind int

const (
	keyPlain keyKind = iota
	keySecret
	keyCPF
)

func classify(key string) keyKind {
	kind := keyPlain
	for _, tok := range tokenizeKey(key) {
		if _, ok := secretTokens[tok]; ok {
			return keySecret
		}
		if tok == "cpf" {
			kind = keyCPF
		}
	}
	return kind
}

// tokenizeKey splits "holderCPF", "user_password" or "Pass-Code" into
// lowercase words.
func tokenizeKey(s string) []string {
	if s == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(s))

	var prevLowerOrDigit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && prevLowerOrDigit {
				b.WriteByte(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLowerOrDigit = unicode.IsLower(r) || unicode.IsDigit(r)
		default:
			b.WriteByte(' ')
			prevLowerOrDigit = false
		}
	}
	return strings.Fields(b.String())
}
