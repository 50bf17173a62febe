package common

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// RoundRating rounds an average rating half away from zero to two decimals.
// Nil stays nil.
func RoundRating(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r, _ := decimal.NewFromFloat(*v).Round(2).Float64()
	return &r
}
