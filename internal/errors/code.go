package errors

import (
	"fmt"
	"regexp"
	"strings"
)

// Code identifies an error kind as "package.name".
type Code struct {
	value string
}

// Error kinds shared across packages.
var (
	CommonInternal   = MustNewCode("common.internal")
	CommonValidation = MustNewCode("common.validation")

	// FileNotFound is returned when an input path does not exist or cannot be stat'ed.
	FileNotFound = MustNewCode("loader.file_not_found")
	// UnsupportedFormat is returned for file extensions no reader is registered for.
	UnsupportedFormat = MustNewCode("loader.unsupported_format")
	// ParseFailed wraps any failure raised while decoding a supported format.
	ParseFailed = MustNewCode("loader.parse_failed")
	// RenderFailed covers report and chart generation failures.
	RenderFailed = MustNewCode("render.failed")
)

var codeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*$`)

// NewCode creates a validated Code.
func NewCode(s string) (Code, error) {
	if !codeRegex.MatchString(s) {
		return Code{}, fmt.Errorf("invalid code format '%s': must be 'package.name' (lowercase, underscores, dots only)", s)
	}
	if strings.Contains(s, "error") || strings.Contains(s, "err") {
		return Code{}, fmt.Errorf("invalid code '%s': should not contain 'error' or 'err'", s)
	}
	return Code{value: s}, nil
}

// MustNewCode creates a Code or panics if invalid.
func MustNewCode(s string) Code {
	code, err := NewCode(s)
	if err != nil {
		panic(err)
	}
	return code
}

func (c Code) String() string { return c.value }

// Package returns the prefix before the dot.
func (c Code) Package() string {
	if idx := strings.Index(c.value, "."); idx != -1 {
		return c.value[:idx]
	}
	return ""
}

// Name returns the part after the dot.
func (c Code) Name() string {
	if idx := strings.Index(c.value, "."); idx != -1 {
		return c.value[idx+1:]
	}
	return c.value
}

func (c Code) Equals(other Code) bool { return c.value == other.value }
