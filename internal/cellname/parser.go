package cellname

import (
	"fmt"
	"regexp"
	"strconv"
)

// nameRegex matches a column of letters followed by a row number.
var nameRegex = regexp.MustCompile(`^([A-Za-z]+)([1-9][0-9]*)$`)

// IsValid reports whether name is a legal cell identifier.
func IsValid(name string) bool {
	return nameRegex.MatchString(name)
}

// Parse creates a new Address by parsing its canonical string representation.
func Parse(name string) (*Address, error) {
	if name == "" {
		return nil, fmt.Errorf("cell name cannot be empty")
	}

	matches := nameRegex.FindStringSubmatch(name)
	if matches == nil {
		return nil, fmt.Errorf("invalid cell name format: %q", name)
	}

	row, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("row number out of range in %q: %w", name, err)
	}

	return &Address{Column: matches[1], Row: row}, nil
}
