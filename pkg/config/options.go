package config

import (
	"strings"

	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/document"
	"maso-hq/masolint/pkg/maso/validator"
)

// ValidatorOptions converts the validation section into engine options.
func (c ValidationConfig) ValidatorOptions() (validator.Options, error) {
	policy, err := diagnostic.ParsePolicy(c.Severity)
	if err != nil {
		return validator.Options{}, err
	}
	return validator.Options{
		Locator: document.LocatorMode(c.Locator),
		Policy:  policy,
	}, nil
}

// Matches reports whether path has one of the configured extensions.
// Matching is case-insensitive.
func (c FilesConfig) Matches(path string) bool {
	for _, ext := range c.Extensions {
		if len(path) > len(ext) && strings.EqualFold(path[len(path)-len(ext):], ext) {
			return true
		}
	}
	return false
}
