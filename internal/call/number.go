package call

import "regexp"

// numberRE matches E.164-style numbers: optional +, a non-zero first digit,
// then 1 to 14 further digits.
var numberRE = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidNumber reports whether s is an acceptable dial target.
func ValidNumber(s string) bool {
	return numberRE.MatchString(s)
}
