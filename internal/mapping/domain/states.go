package domain

import "strings"

var stateNames = map[string]string{
	"NSW": "New South Wales",
	"VIC": "Victoria",
	"QLD": "Queensland",
	"SA":  "South Australia",
	"WA":  "Western Australia",
	"TAS": "Tasmania",
	"ACT": "Australian Capital Territory",
	"NT":  "Northern Territory",
}

// StateName returns the full name for an Australian state or territory code.
// Unknown codes are returned unchanged with ok=false.
func StateName(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name, ok := stateNames[code]
	if !ok {
		return code, false
	}
	return name, true
}
