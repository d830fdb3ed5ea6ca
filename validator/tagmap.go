package validator

var tagMap = map[string]string{
	"required":  "required",
	"omitempty": "optional",
	"cpf":       "invalid_cpf",
	"email":     "invalid_email",
	"e164":      "invalid_phone",
	"uuid4":     "invalid_uuid",
	"uuid":      "invalid_uuid",
	"eqfield":   "field_mismatch",
	"nefield":   "field_should_differ",
	"max":       "too_long",
	"min":       "too_short",
	"len":       "invalid_length",
	"oneof":     "invalid_choice",
	"alpha":     "only_letters_allowed",
	"alphanum":  "only_letters_and_digits_allowed",
	"numeric":   "only_numbers_allowed",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}

// TagMap returns a copy of the tag -> reason table, e.g. for errors.FromPlayground.
func TagMap() map[string]string {
	out := make(map[string]string, len(tagMap))
	for k, v := range tagMap {
		out[k] = v
	}
	return out
}
