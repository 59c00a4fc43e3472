// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// # Rejections

// Rejection is a validation failure. It is returned as a plain string sentinel
// so callers can tell "bad input" apart from system failures ([*Fail]).
type Rejection string

// Error implements the error interface.
func (r Rejection) Error() string { return string(r) }

const (
	// Malformed means the email has no domain segment.
	Malformed Rejection = "malformed"
	// Disallowed means the email domain is not on the allow-list.
	Disallowed Rejection = "disallowed"
	// TooShort means the password has fewer than [MinPasswordLength] characters.
	TooShort Rejection = "too short"
	// Profanity means the display name failed the profanity screen.
	Profanity Rejection = "profanity"
	// Empty means the text is blank after trimming.
	Empty Rejection = "empty"
	// TooLong means the text exceeds the allowed length.
	TooLong Rejection = "too long"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 4

	// MaxDisplayNameLength bounds display names (in runes).
	MaxDisplayNameLength = 64

	// MaxContentLength bounds comments, replies, bios and suggestion fields (in runes).
	MaxContentLength = 2000
)

// DefaultEmailDomains is the allow-list used by [ValidateEmail].
var DefaultEmailDomains = []string{"uwo.ca"}

// # Valid Types

// ValidEmail is an email address that passed [EmailPolicy.Validate].
type ValidEmail struct{ value string }

// ValidPassword is a password that passed [ValidatePassword].
type ValidPassword struct{ value string }

// ValidDisplayName is a display name that passed [ValidateDisplayName].
type ValidDisplayName struct{ value string }

// ValidContent is non-blank user text (comments, replies, bios, suggestions).
type ValidContent struct{ value string }

// Value returns the validated string.
func (v ValidEmail) Value() string { return v.value }

// Value returns the validated string.
func (v ValidPassword) Value() string { return v.value }

// Value returns the validated string.
func (v ValidDisplayName) Value() string { return v.value }

// Value returns the validated string.
func (v ValidContent) Value() string { return v.value }

// mustBeValid panics when a zero Valid value reaches a session method.
// A zero value can only come from code that skipped validation.
func mustBeValid(value, what string) string {
	if value == "" {
		panic("safesession: unvalidated " + what + " passed to a session method")
	}
	return value
}

// # Email

// EmailPolicy validates email addresses against a domain allow-list.
type EmailPolicy struct {
	// Domains lists the accepted domains, compared case-insensitively.
	Domains []string
}

// ValidateEmail validates raw against [DefaultEmailDomains].
func ValidateEmail(raw string) (ValidEmail, error) {
	return EmailPolicy{Domains: DefaultEmailDomains}.Validate(raw)
}

// Validate returns [Malformed] when raw has no segment after "@", [Disallowed]
// when that segment is not an allowed domain, and a [ValidEmail] otherwise.
func (policy EmailPolicy) Validate(raw string) (ValidEmail, error) {
	email := strings.TrimSpace(raw)

	local, domain, found := strings.Cut(email, "@")
	if !found || domain == "" || local == "" {
		return ValidEmail{}, Malformed
	}

	for _, allowed := range policy.Domains {
		if strings.EqualFold(domain, allowed) {
			return ValidEmail{value: email}, nil
		}
	}

	return ValidEmail{}, Disallowed
}

// # Password

// ValidatePassword returns [TooShort] when raw has fewer than [MinPasswordLength] characters.
func ValidatePassword(raw string) (ValidPassword, error) {
	if utf8.RuneCountInString(raw) < MinPasswordLength {
		return ValidPassword{}, TooShort
	}
	return ValidPassword{value: raw}, nil
}

// # Display Name

// ProfanityScreen reports whether a display name is acceptable.
// It is the extension point for a real word filter.
type ProfanityScreen func(name string) bool

// AcceptAll is the default [ProfanityScreen].
func AcceptAll(string) bool { return true }

// ValidateDisplayName validates raw with the default screen.
func ValidateDisplayName(raw string) (ValidDisplayName, error) {
	return ValidateDisplayNameWith(raw, AcceptAll)
}

// ValidateDisplayNameWith normalizes raw to NFC, trims it, and runs the screen.
//
// # Rejections
//   - [Empty]: blank after trimming.
//   - [TooLong]: longer than [MaxDisplayNameLength] runes.
//   - [Profanity]: the screen refused it.
func ValidateDisplayNameWith(raw string, screen ProfanityScreen) (ValidDisplayName, error) {
	name := strings.TrimSpace(norm.NFC.String(raw))

	if name == "" {
		return ValidDisplayName{}, Empty
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return ValidDisplayName{}, TooLong
	}
	if screen != nil && !screen(name) {
		return ValidDisplayName{}, Profanity
	}

	return ValidDisplayName{value: name}, nil
}

// # Content

// ValidateContent rejects blank or oversized text. Surrounding whitespace is kept
// off the stored value.
func ValidateContent(raw string) (ValidContent, error) {
	content := strings.TrimSpace(norm.NFC.String(raw))

	if content == "" {
		return ValidContent{}, Empty
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return ValidContent{}, TooLong
	}

	return ValidContent{value: content}, nil
}
