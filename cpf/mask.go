package cpf

const (
	shortDigitCountThreshold = 4
	keepShortDigits          = 1
	keepLongDigits           = 4
)

// Mask formats s and replaces every digit except the trailing ones with '*'.
// It keeps the last 4 digits, or only the last one when s has 4 digits or
// fewer. Use it whenever a CPF ends up in logs.
//
// Examples:
//
//	"11144477735"    -> "***.***.*77-35"
//	"111.444.777-35" -> "***.***.*77-35"
//	"1114"           -> "***.4"
//	"abc"            -> ""
func Mask(s string) string {
	b := []byte(Format(s))

	total := 0
	for _, c := range b {
		if isDigit(c) {
			total++
		}
	}
	if total == 0 {
		return ""
	}

	keep := keepLongDigits
	if total <= shortDigitCountThreshold {
		keep = keepShortDigits
	}

	seen := 0
	for i := len(b) - 1; i >= 0; i-- {
		if isDigit(b[i]) {
			seen++
			if seen > keep {
				b[i] = '*'
			}
		}
	}
	return string(b)
}
