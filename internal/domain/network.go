package domain

import "strings"

// ValidateNetworkName rejects names that cannot be used as a single path
// element under contracts/ and configs/.
func ValidateNetworkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return NewValidationError("network", name, "must not be empty")
	case name == "." || name == "..":
		return NewValidationError("network", name, "must not be a relative path element")
	case strings.ContainsAny(name, `/\`):
		return NewValidationError("network", name, "must not contain path separators")
	case strings.ContainsRune(name, 0):
		return NewValidationError("network", name, "must not contain NUL")
	}
	return nil
}
