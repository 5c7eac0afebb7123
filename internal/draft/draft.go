package draft

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the maximum character count for an X post, measured
// in Unicode code points.
const DefaultMaxLength = 280

// ValidationError reports a draft rejected locally, before any network
// activity: empty after trimming, or longer than the limit.
type ValidationError struct {
	Reason string
	Length int
	Limit  int
}

func (e *ValidationError) Error() string { return e.Reason }

// Validate trims surrounding whitespace and checks the draft against the
// length limit. It returns the cleaned text that will actually be posted;
// violating drafts come back as a *ValidationError and must never reach
// the network.
func Validate(text string, maxLength int) (string, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return "", &ValidationError{
			Reason: "message is empty after trimming whitespace",
			Limit:  maxLength,
		}
	}

	if count := Count(cleaned); count > maxLength {
		return "", &ValidationError{
			Reason: fmt.Sprintf("text exceeds maximum length of %d characters", maxLength),
			Length: count,
			Limit:  maxLength,
		}
	}

	return cleaned, nil
}

// Count returns the draft length in Unicode code points, the unit the
// platform limit is defined in.
func Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Remaining returns how many code points are left before the draft hits
// maxLength. Negative means the draft is over the limit; the GUI binds its
// live counter to this value.
func Remaining(text string, maxLength int) int {
	return maxLength - Count(text)
}
