package timecamp

import "strconv"

// toInt coerces a decoded JSON value that may arrive as either a number or a
// numeric string (TimeCamp's API is inconsistent about this across
// endpoints) into an int.
func toInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, _ := strconv.Atoi(t)
		return n
	default:
		return 0
	}
}
