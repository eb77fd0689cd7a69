package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jdziat/apigen/pkg/core"
)

// Security limits and configuration
const (
	// MaxModuleNameLength is the maximum length for module names
	MaxModuleNameLength = 128

	// MaxMethodNameLength is the maximum length for method names
	MaxMethodNameLength = 128

	// MaxVersion is the highest API version accepted
	MaxVersion = 10000

	// MaxErrorMessageLength is the maximum length for error messages returned to clients
	MaxErrorMessageLength = 1024
)

// validName matches identifiers: letters, digits and underscores, not starting with a digit.
var validName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateModuleName validates a module name
func ValidateModuleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: module name is empty", core.ErrInvalidModule)
	}
	if len(name) > MaxModuleNameLength {
		return fmt.Errorf("%w: module name too long", core.ErrInvalidModule)
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", core.ErrInvalidModule, name)
	}
	return nil
}

// ValidateMethodName validates a method name
func ValidateMethodName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: method name is empty", core.ErrInvalidMethod)
	}
	if len(name) > MaxMethodNameLength {
		return fmt.Errorf("%w: method name too long", core.ErrInvalidMethod)
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", core.ErrInvalidMethod, name)
	}
	return nil
}

// ValidateVersion validates an API version number
func ValidateVersion(version int) error {
	if version < 1 || version > MaxVersion {
		return fmt.Errorf("%w: %d", core.ErrInvalidVersion, version)
	}
	return nil
}

// SanitizeErrorMessage truncates and strips control characters from error messages
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	// Remove any null bytes or control characters (except newlines)
	var sanitized strings.Builder
	sanitized.Grow(len(msg))

	for _, r := range msg {
		if r == '\n' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if utf8.RuneCountInString(result) > MaxErrorMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxErrorMessageLength-3]) + "..."
	}

	return result
}
