package validator

var tagMap = map[string]string{
	"required": "required",
	"eqfield":  "field_mismatch",
	"gtefield": "field_too_small",
	"max":      "too_long",
	"min":      "too_short",
	"gt":       "too_small",
	"lt":       "too_large",
	"gte":      "too_small_or_equal",
	"lte":      "too_large_or_equal",
	"oneof":    "invalid_choice",
	"numeric":  "only_numbers_allowed",
	"boolean":  "invalid_boolean",
	"hostname": "invalid_hostname",
	"ip":       "invalid_ip",
	"url":      "invalid_url",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
