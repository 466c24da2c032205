package utils

import "strconv"

// StringToInt parses a query parameter, returning fallback when str is empty
// or not a number.
func StringToInt(str string, fallback int) int {
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}
