package cpf

// Normalize returns the ASCII decimal digits of s in their original order.
// Multi-byte runes never contain bytes in '0'..'9', so a byte scan is exact.
func Normalize(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			n++
		}
	}
	if n == len(s) {
		return s
	}
	if n == 0 {
		return ""
	}

	b := make([]byte, 0, n)
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b = append(b, s[i])
		}
	}
	return string(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
