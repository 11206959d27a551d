// Package dept normalizes the loosely-specified department and branch strings
// that arrive from spreadsheet imports ("AI&DS", "cse", "CS-IOT", ...).
//
// Two granularities exist on purpose: Broad collapses sibling branches into the
// department group an HOD is scoped to, while Strict keeps sibling branches
// apart for roster filtering. Both are pure and total; an unrecognized input
// comes back as its stripped, uppercased form.
package dept

import "strings"

// Canon strips non-letter characters and uppercases the input. It is the
// common first step for both granularities and for equality checks on raw
// import values.
func Canon(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var broadAIDS = map[string]bool{
	"AID": true, "CSM": true, "AIDS": true, "AIML": true, "ML": true,
	"DS": true, "CSD": true, "CSDS": true, "CSAI": true, "IOT": true,
	"CSIOT": true,
}

var broadCSE = map[string]bool{
	"CSE": true, "CS": true, "CSBS": true, "CSI": true, "CSEA": true, "CSEB": true,
}

// Broad maps a department or branch string to its broad group tag, used for
// HOD-level dashboard scoping. AI/ML/DS/IoT branches all group under AIDS.
func Broad(s string) string {
	d := Canon(s)
	if d == "" {
		return ""
	}
	if broadAIDS[d] ||
		strings.Contains(d, "ARTIFICIAL") || strings.Contains(d, "MACHINE") ||
		strings.Contains(d, "DATA") || strings.Contains(d, "IOT") {
		return "AIDS"
	}
	if broadCSE[d] || strings.Contains(d, "COMPUTER") || strings.Contains(d, "COMP") {
		return "CSE"
	}
	return d
}

// Strict maps a branch string to its strict branch tag, used for student
// roster filtering. Unlike Broad it keeps AID, IOT and CSM apart, folding only
// direct aliases.
func Strict(s string) string {
	b := Canon(s)
	if b == "" {
		return ""
	}
	switch b {
	case "AID", "AIDS":
		return "AID"
	case "IOT", "CSIOT":
		return "IOT"
	case "CSM", "CSML", "AIML":
		return "CSM"
	}
	return b
}

// SameBroad reports whether two department strings fall in the same broad
// group. Dashboards use this instead of comparing raw strings.
func SameBroad(a, b string) bool {
	return Broad(a) == Broad(b)
}
