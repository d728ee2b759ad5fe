package llm

import (
	"regexp"
	"strings"
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^0-9A-Za-z]+`)
	underscorePattern = regexp.MustCompile(`_+`)
)

// fieldSynonyms folds common aliases onto canonical field keys.
var fieldSynonyms = map[string]string{
	"dob":                     "date_of_birth",
	"dateofbirth":             "date_of_birth",
	"ni":                      "national_insurance_number",
	"ni_number":               "national_insurance_number",
	"nationalinsurancenumber": "national_insurance_number",
	"national_insurance":      "national_insurance_number",
	"policy_number":           "plan_number",
	"policynumber":            "plan_number",
	"plan":                    "plan_number",
	"plannumber":              "plan_number",
	"provider":                "provider_name",
	"providername":            "provider_name",
}

// ToSnake converts arbitrary field naming to lower_snake_case.
func ToSnake(s string) string {
	s = nonAlnumPattern.ReplaceAllString(strings.TrimSpace(s), "_")
	s = underscorePattern.ReplaceAllString(s, "_")
	return strings.ToLower(strings.Trim(s, "_"))
}

// CanonicalFieldName normalizes a field name to its canonical key,
// folding known synonyms.
func CanonicalFieldName(name string) string {
	key := ToSnake(name)
	if canonical, ok := fieldSynonyms[key]; ok {
		return canonical
	}
	return key
}

// CanonicalizeFieldUpdates rewrites every key of a field-update map
// to its canonical form. Values are trimmed; later duplicates under
// the same canonical key win.
func CanonicalizeFieldUpdates(updates map[string]string) map[string]string {
	canonical := make(map[string]string, len(updates))
	for k, v := range updates {
		canonical[CanonicalFieldName(k)] = strings.TrimSpace(v)
	}
	return canonical
}

// CanonicalizeFieldNames rewrites each field name to canonical form,
// preserving order and dropping duplicates.
func CanonicalizeFieldNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := CanonicalFieldName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func normalizeCategoryToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
