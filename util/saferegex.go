package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Constants for regex validation
const (
	// MaxRegexLength is the maximum allowed regex pattern length
	MaxRegexLength = 500
	// maxAlternations caps the number of | alternations in one pattern
	maxAlternations = 50
	// maxRepetitionCount caps explicit {n,m} repetition bounds
	maxRepetitionCount = 1000
)

// RegexValidator validates and compiles user-supplied extraction patterns
// with safety checks. Log audit patterns come straight from the command
// line, so length limits and basic ReDoS screening happen before compile.
type RegexValidator struct {
	maxLength int
}

// NewRegexValidator creates a RegexValidator with default settings.
func NewRegexValidator() *RegexValidator {
	return &RegexValidator{maxLength: MaxRegexLength}
}

// ValidatePattern validates a regex pattern for safety.
func (rv *RegexValidator) ValidatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("regex pattern cannot be empty")
	}
	if len(pattern) > rv.maxLength {
		return fmt.Errorf("regex pattern too long: %d characters (max %d)", len(pattern), rv.maxLength)
	}
	if err := rv.checkForReDoSPatterns(pattern); err != nil {
		return err
	}
	if alternationCount := strings.Count(pattern, "|"); alternationCount > maxAlternations {
		return fmt.Errorf("too many alternations: %d (max %d)", alternationCount, maxAlternations)
	}
	if err := rv.checkForExcessiveRepetition(pattern); err != nil {
		return err
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid regex pattern: %w", err)
	}
	return nil
}

// Compile validates and compiles a pattern in one step.
func (rv *RegexValidator) Compile(pattern string) (*regexp.Regexp, error) {
	if err := rv.ValidatePattern(pattern); err != nil {
		return nil, err
	}
	return regexp.Compile(pattern)
}

// checkForReDoSPatterns checks for nested quantifier patterns such as
// (a+)+ or (a*)* that blow up on pathological input.
func (rv *RegexValidator) checkForReDoSPatterns(pattern string) error {
	nested := []string{"+)+", "*)*", "+)*", "*)+", "+)?", "*)?", "}){", "})+", "})*"}
	for _, marker := range nested {
		if strings.Contains(pattern, marker) {
			return fmt.Errorf("potentially dangerous nested quantifier in pattern: %q", marker)
		}
	}
	return nil
}

// checkForExcessiveRepetition rejects explicit repetition bounds above the
// allowed maximum, e.g. a{100000}.
func (rv *RegexValidator) checkForExcessiveRepetition(pattern string) error {
	re := regexp.MustCompile(`\{(\d+)(?:,(\d*))?\}`)
	for _, m := range re.FindAllStringSubmatch(pattern, -1) {
		for _, bound := range m[1:] {
			if bound == "" {
				continue
			}
			n, err := strconv.Atoi(bound)
			if err != nil {
				continue
			}
			if n > maxRepetitionCount {
				return fmt.Errorf("repetition count %d exceeds maximum %d", n, maxRepetitionCount)
			}
		}
	}
	return nil
}
