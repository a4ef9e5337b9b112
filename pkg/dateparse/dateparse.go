package dateparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat is matched by every ParseError via errors.Is.
var ErrInvalidFormat = errors.New("unrecognized birthdate format")

// ParseError reports a birthdate string that matched none of the
// accepted formats. The message lists examples so it can be shown
// to end users as-is.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized birthdate %q (accepted formats: 1970-07-24, 1970/7/24, 1970.7.24, 19700724, 700724, 1970年7月24日)", e.Input)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidFormat
}

// Two-digit years at or below this pivot are 20xx, the rest 19xx.
const twoDigitYearPivot = 29

var (
	delimitedRe = regexp.MustCompile(`^(\d{4})[/\-. ](\d{1,2})[/\-. ](\d{1,2})$`)
	localizedRe = regexp.MustCompile(`^(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日$`)
	nonDigitRe  = regexp.MustCompile(`\D`)
)

// foldWidth maps full-width digits and date punctuation to their ASCII
// equivalents so that inputs typed with a Japanese IME parse like any
// other. The 年/月/日 unit characters are left alone; the localized
// pattern matches them directly.
var foldWidth = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
	"／", "/", "－", "-", "．", ".", "　", " ",
)

// Normalize converts a textual birthdate into canonical zero-padded
// YYYY-MM-DD form. Month and day are checked against their numeric
// bounds only; calendar validity (e.g. April 31) is not enforced here.
func Normalize(raw string) (string, error) {
	s := foldWidth.Replace(strings.TrimSpace(raw))

	if m := delimitedRe.FindStringSubmatch(s); m != nil {
		return canonical(m[1], m[2], m[3], raw)
	}

	if m := localizedRe.FindStringSubmatch(s); m != nil {
		return canonical(m[1], m[2], m[3], raw)
	}

	// All-digit fallback: whatever is left after stripping every
	// non-digit must be an exact YYYYMMDD or YYMMDD.
	digits := nonDigitRe.ReplaceAllString(s, "")
	switch len(digits) {
	case 8:
		return canonical(digits[:4], digits[4:6], digits[6:], raw)
	case 6:
		yy, _ := strconv.Atoi(digits[:2])
		year := 1900 + yy
		if yy <= twoDigitYearPivot {
			year = 2000 + yy
		}
		return canonical(strconv.Itoa(year), digits[2:4], digits[4:], raw)
	}

	return "", &ParseError{Input: raw}
}

func canonical(year, month, day, raw string) (string, error) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return "", &ParseError{Input: raw}
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}
