package discovery

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/datalens-io/datalens-engine/pkg/models"
)

// sensitiveRule maps a query pattern to a sensitive-data type. Unlike
// category classification, every matching rule fires: a query may reference
// several kinds of sensitive data at once.
type sensitiveRule struct {
	pattern  *regexp.Regexp
	dataType models.SensitiveDataType
}

var sensitiveRules = []sensitiveRule{
	{regexp.MustCompile(`credit\s*card|card\s*number|debit\s*card|payment\s*card|cardholder|\bpci\b`), models.SensitiveCreditCard},
	{regexp.MustCompile(`\bssn\b|social\s*security`), models.SensitiveSSN},
	{regexp.MustCompile(`e-?mail`), models.SensitiveEmail},
	{regexp.MustCompile(`\bphone\b|mobile\s*number|telephone`), models.SensitivePhone},
	{regexp.MustCompile(`\baddress\b|\bstreet\b|zip\s*code|postal\s*code`), models.SensitiveAddress},
	{regexp.MustCompile(`(customer|first|last|full)\s*name|\bnames\b`), models.SensitiveName},
	{regexp.MustCompile(`password|credential`), models.SensitivePassword},
	{regexp.MustCompile(`\bsalar(y|ies)\b|compensation|\bwage\b|payroll`), models.SensitiveSalary},
	{regexp.MustCompile(`date\s*of\s*birth|birth\s*date|\bdob\b|birthday`), models.SensitiveDateOfBirth},
}

// DetectSensitiveTypes returns every sensitive-data type the query refers to.
// Pure and deterministic; evaluation order follows the rule table.
func DetectSensitiveTypes(lowerQuery string) map[models.SensitiveDataType]bool {
	detected := make(map[models.SensitiveDataType]bool)
	for _, rule := range sensitiveRules {
		if rule.pattern.MatchString(lowerQuery) {
			detected[rule.dataType] = true
		}
	}
	return detected
}

// sensitiveFieldNames maps each sensitive-data type to column-name fragments
// that identify a direct hit. A column whose name contains one of these
// fragments for a detected type is an exact match for the query.
var sensitiveFieldNames = map[models.SensitiveDataType][]string{
	models.SensitiveCreditCard:  {"card_number", "credit_card", "cc_number", "card_no", "pan"},
	models.SensitiveSSN:         {"ssn", "social_security"},
	models.SensitiveEmail:       {"email", "e_mail"},
	models.SensitivePhone:       {"phone", "mobile", "telephone"},
	models.SensitiveAddress:     {"address", "street", "city", "zip", "postal"},
	models.SensitiveName:        {"first_name", "last_name", "full_name", "name"},
	models.SensitivePassword:    {"password", "passwd", "pwd", "secret"},
	models.SensitiveSalary:      {"salary", "compensation", "wage", "pay_rate"},
	models.SensitiveDateOfBirth: {"birth_date", "date_of_birth", "birthdate", "dob"},
}

// fieldNameTokens splits a column name into comparable tokens on every
// non-alphanumeric boundary.
func fieldNameTokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// fieldNameHasAny reports whether the column name contains one of the
// fragments on token boundaries: "pan" matches "card_pan" and "pan", never
// "company" or "expand".
func fieldNameHasAny(name string, fragments []string) bool {
	toks := fieldNameTokens(name)
	for _, frag := range fragments {
		if hasTokenRun(toks, fieldNameTokens(frag)) {
			return true
		}
	}
	return false
}

func hasTokenRun(toks, run []string) bool {
	if len(run) == 0 {
		return false
	}
	for i := 0; i+len(run) <= len(toks); i++ {
		match := true
		for j := range run {
			if toks[i+j] != run[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
