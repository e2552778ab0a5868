package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var idRegex = regexp.MustCompile(`^#?(\d+)$`)

// ParseTaskID parses a task or timespan id given as "42" or "#42".
func ParseTaskID(input string) (uint, error) {
	input = strings.TrimSpace(input)

	matches := idRegex.FindStringSubmatch(input)
	if len(matches) != 2 {
		return 0, fmt.Errorf("invalid id '%s'. Use a number like 42 or #42", input)
	}

	id, err := strconv.ParseUint(matches[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id '%s': %w", input, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid id '%s': ids start at 1", input)
	}

	return uint(id), nil
}
