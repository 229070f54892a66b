package profile

import (
	"fmt"
	"regexp"
)

var (
	fullDateRe    = regexp.MustCompile(`(\d{4})\s*-\s*(\d{2})\s*-\s*(\d{2})`)
	partialDateRe = regexp.MustCompile(`(\d{4})(?:\s*-\s*(\d{2})(?:\s*-\s*(\d{2}))?)?`)
)

// ParseDate extracts a YYYY-MM-DD date from free-form cell text. In full
// mode all three components must be present; otherwise missing month/day
// pad to "00". A non-matching value is a malformed-source error.
func ParseDate(value string, full bool) (string, error) {
	re := partialDateRe
	if full {
		re = fullDateRe
	}
	m := re.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("%w: no date in %q", ErrMalformedSource, value)
	}
	year, month, day := m[1], m[2], m[3]
	if month == "" {
		month = "00"
	}
	if day == "" {
		day = "00"
	}
	return fmt.Sprintf("%s-%s-%s", year, month, day), nil
}
