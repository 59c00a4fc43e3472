// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level problems of a request body into one
// VALIDATION_ERROR.
//
// It only checks the shape of a request: presence, length, enums and ID formats. Content
// rules (display names, emails, passwords, poll text) belong to safesession,
// whose typed rejections are folded in with [Validator.Check].
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/wevote/internal/platform/apperr"
	"github.com/taibuivan/wevote/pkg/uuid"
)

const failed = "Validation failed"

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates field errors. Use a fresh one per request.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails when value is blank after trimming.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails when value has more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// UUID fails when value is not a UUID.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuid.Valid(value) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf fails when value is not one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Check records err's text when it is non-nil.
//
//	email, err := policy.Validate(input.Email)
//	v.Check("email", err)
func (v *Validator) Check(field string, err error) *Validator {
	if err != nil {
		v.add(field, err.Error())
	}
	return v
}

// Err ends the chain: nil when nothing failed, otherwise a VALIDATION_ERROR
// listing every failure in the order it was recorded.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(failed, v.errs...)
}

// HasErrors reports whether anything failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// FieldError builds a VALIDATION_ERROR for a single field.
func FieldError(field, message string) *apperr.AppError {
	return apperr.ValidationError(failed, apperr.FieldError{Field: field, Message: message})
}
