package cpf

const (
	// Length is the number of digits in a CPF.
	Length = 11
	// FormattedLength is the length of a fully masked CPF, "ddd.ddd.ddd-dd".
	FormattedLength = 14
)

// Format applies the "ddd.ddd.ddd-dd" mask to the digits of raw.
// Separators are only emitted once the following group has started, so the
// function can be fed a value on every keystroke:
//
//	""              -> ""
//	"111"           -> "111"
//	"1114"          -> "111.4"
//	"111444777"     -> "111.444.777"
//	"1114447773"    -> "111.444.777-3"
//	"abc11144477735" -> "111.444.777-35"
//
// Digits past the eleventh are dropped from the result.
func Format(raw string) string {
	d := Normalize(raw)

	switch n := len(d); {
	case n <= 3:
		return d
	case n <= 6:
		return d[:3] + "." + d[3:]
	case n <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:min(n, Length)]
	}
}
