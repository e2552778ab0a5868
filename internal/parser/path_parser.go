package parser

import (
	"fmt"
	"strings"
)

// PathSeparator separates task names in a task path.
const PathSeparator = "/"

// SplitPath splits a task path like "Work/Client A/Feature X" into its
// trimmed segment names. Empty segments are rejected.
func SplitPath(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("task path must not be empty")
	}

	// Tolerate a leading or trailing separator: "/Work/" == "Work"
	input = strings.Trim(input, PathSeparator)

	parts := strings.Split(input, PathSeparator)
	names := make([]string, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty segment %d in task path %q", i+1, input)
		}
		names = append(names, p)
	}

	return names, nil
}

// IsPath reports whether input names more than one path segment.
func IsPath(input string) bool {
	return strings.Contains(strings.Trim(strings.TrimSpace(input), PathSeparator), PathSeparator)
}
