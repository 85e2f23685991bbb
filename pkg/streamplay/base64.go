// ABOUTME: Base64 transport helpers
// ABOUTME: Strips data URI prefixes and decodes fragments
package streamplay

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

var dataURIPrefix = regexp.MustCompile(`^data:[^;]+;base64,`)

// StripBase64Prefix removes a leading "data:<mime>;base64," if present
func StripBase64Prefix(s string) string {
	return dataURIPrefix.ReplaceAllString(s, "")
}

// DecodeBase64 decodes a standard base64 fragment, with or without a data
// URI prefix
func DecodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty base64 input", ErrInvalidConfiguration)
	}

	data, err := base64.StdEncoding.DecodeString(StripBase64Prefix(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return data, nil
}
