package document

import (
	"strings"

	"github.com/avisser/redline/internal/errors"
)

// ValidateSave checks a document before any persistence attempt.
// Empty title or content is a validation failure surfaced to the user;
// no partial write occurs. maxChars <= 0 disables the size check.
func ValidateSave(title, content string, maxChars int) error {
	if strings.TrimSpace(title) == "" {
		return errors.NewInvalidRequest("title must not be empty")
	}
	if strings.TrimSpace(content) == "" {
		return errors.NewInvalidRequest("content must not be empty")
	}
	if maxChars > 0 {
		if chars := CountChars(content); chars > maxChars {
			return errors.NewDocumentTooLarge(maxChars, chars)
		}
	}
	return nil
}
