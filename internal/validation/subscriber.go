// Package validation checks untrusted subscriber input before it reaches
// the persistence layer.
package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength bounds the subscriber name after normalization.
const MaxNameLength = 256

var (
	ErrEmptyEmail     = errors.New("email must not be empty")
	ErrEmptyName      = errors.New("name must not be empty")
	ErrNameTooLong    = errors.New("name exceeds maximum length")
	ErrForbiddenRunes = errors.New("name contains forbidden characters")
)

// Control, format, surrogate and private-use characters never belong in a
// display name.
var blockedCategories = []*unicode.RangeTable{
	unicode.Cc,
	unicode.Cf,
	unicode.Cs,
	unicode.Co,
}

// SubscriberEmail validates the email field: required and non-empty after
// trimming. Anything stricter belongs to a confirmation flow, not intake.
func SubscriberEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

// SubscriberName validates the name field. The input is NFKC-normalized
// before checks so visually equivalent encodings are treated alike.
func SubscriberName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	normalized := norm.NFKC.String(name)
	if utf8.RuneCountInString(normalized) > MaxNameLength {
		return ErrNameTooLong
	}
	for _, r := range normalized {
		if unicode.IsOneOf(blockedCategories, r) {
			return ErrForbiddenRunes
		}
	}
	return nil
}
