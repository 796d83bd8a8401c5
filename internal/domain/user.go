package domain

import (
	"fmt"
	"strconv"
)

// UserContext is the caller's profile, forwarded verbatim to the content
// worker. Only the age field is read locally.
type UserContext map[string]interface{}

// AgeGroup returns the user's age coerced to a string, or "" when absent.
func (u UserContext) AgeGroup() string {
	age, ok := u["age"]
	if !ok || age == nil {
		return ""
	}
	switch v := age.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64
		return strconv.Itoa(int(v))
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
