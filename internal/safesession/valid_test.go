// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/safesession"
)

/*
TestValidateEmail checks the domain allow-list and the malformed cases.
*/
func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"allowed", "jdoe@uwo.ca", nil},
		{"allowed_case_insensitive", "jdoe@UWO.CA", nil},
		{"disallowed_domain", "jdoe@gmail.com", safesession.Disallowed},
		{"subdomain_disallowed", "jdoe@mail.uwo.ca", safesession.Disallowed},
		{"no_at", "not-an-email", safesession.Malformed},
		{"empty_domain", "jdoe@", safesession.Malformed},
		{"empty_local", "@uwo.ca", safesession.Malformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := safesession.ValidateEmail(tt.raw)
			if tt.want != nil {
				assert.Equal(t, tt.want, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, email.Value())
		})
	}
}

/*
TestEmailPolicy_CustomDomains verifies that configuration can replace the allow-list.
*/
func TestEmailPolicy_CustomDomains(t *testing.T) {
	policy := safesession.EmailPolicy{Domains: []string{"example.org"}}

	_, err := policy.Validate("a@example.org")
	assert.NoError(t, err)

	_, err = policy.Validate("a@uwo.ca")
	assert.Equal(t, safesession.Disallowed, err)
}

/*
TestValidatePassword counts characters, not bytes.
*/
func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"empty", "", false},
		{"three", "abc", false},
		{"four", "abcd", true},
		{"multibyte_three", "äöü", false},
		{"multibyte_four", "äöüß", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := safesession.ValidatePassword(tt.raw)
			if !tt.ok {
				assert.Equal(t, safesession.TooShort, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, password.Value())
		})
	}
}

/*
TestValidateDisplayName covers trimming, normalization and the profanity screen.
*/
func TestValidateDisplayName(t *testing.T) {
	name, err := safesession.ValidateDisplayName("  Jane  ")
	require.NoError(t, err)
	assert.Equal(t, "Jane", name.Value())

	// "e" + combining acute composes to a single rune under NFC.
	name, err = safesession.ValidateDisplayName("Rene\u0301")
	require.NoError(t, err)
	assert.Equal(t, "Ren\u00e9", name.Value())

	_, err = safesession.ValidateDisplayName("   ")
	assert.Equal(t, safesession.Empty, err)

	_, err = safesession.ValidateDisplayName(strings.Repeat("x", safesession.MaxDisplayNameLength+1))
	assert.Equal(t, safesession.TooLong, err)

	screen := func(name string) bool { return !strings.Contains(strings.ToLower(name), "heck") }
	_, err = safesession.ValidateDisplayNameWith("What the Heck", screen)
	assert.Equal(t, safesession.Profanity, err)
}

/*
TestValidateContent rejects blank and oversized text.
*/
func TestValidateContent(t *testing.T) {
	content, err := safesession.ValidateContent("\n hello \t")
	require.NoError(t, err)
	assert.Equal(t, "hello", content.Value())

	_, err = safesession.ValidateContent(" \n\t ")
	assert.Equal(t, safesession.Empty, err)

	_, err = safesession.ValidateContent(strings.Repeat("x", safesession.MaxContentLength+1))
	assert.Equal(t, safesession.TooLong, err)
}
