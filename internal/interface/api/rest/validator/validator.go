package validator

import (
	"strconv"
	"strings"
)

// QueryInt parses a numeric query value; anything unparsable yields 0 so the
// service applies its default.
func QueryInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
