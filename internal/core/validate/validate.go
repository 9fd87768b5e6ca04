// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Required fails for strings that are empty after trimming whitespace.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// MaxBytes returns a validator rejecting strings longer than n bytes.
func MaxBytes(n int) func(string) error {
	return func(s string) error {
		if len(s) > n {
			return fmt.Errorf("exceeds %d bytes", n)
		}
		return nil
	}
}

// All chains validators, stopping at the first failure.
func All(checks ...func(string) error) func(string) error {
	return func(s string) error {
		for _, check := range checks {
			if err := check(s); err != nil {
				return err
			}
		}
		return nil
	}
}

// RequiredField returns a criterio validator for a required text field.
func RequiredField(field, value string) error {
	return criterio.Run(field, value, Required)
}
