// Package classify decides whether a rasterized page opens a new
// polling-station section or continues a voter listing. It is a
// deterministic text heuristic over the page's OCR output, not a model.
package classify

import (
	"regexp"
	"strings"
)

// PageType tags the classification outcome. Unknown is a first-class case:
// the orchestrator logs and skips it rather than guessing.
type PageType int

const (
	Unknown PageType = iota
	Header
	Data
)

func (t PageType) String() string {
	switch t {
	case Header:
		return "HEADER"
	case Data:
		return "DATA"
	default:
		return "UNKNOWN"
	}
}

// epicToken matches an EPIC-shaped identifier: letters followed by digits,
// long enough to rule out ordinary words with trailing numbers.
var epicToken = regexp.MustCompile(`\b[A-Z]{2,5}[0-9]{6,10}\b`)

// minDataSignals is the number of row-like signals required before a page
// counts as a voter listing.
const minDataSignals = 3

// Classify inspects a page's OCR text. A page is HEADER when it carries the
// assembly-constituency section marker alongside a part-number label, DATA
// when it shows repeated voter-row structure, and UNKNOWN otherwise.
func Classify(text string) PageType {
	if isHeader(text) {
		return Header
	}
	if isData(text) {
		return Data
	}
	return Unknown
}

func isHeader(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "assembly constituency") &&
		strings.Contains(lower, "part no")
}

func isData(text string) bool {
	if len(epicToken.FindAllString(text, minDataSignals)) >= minDataSignals {
		return true
	}
	return shortLineGroups(text) >= minDataSignals
}

// shortLineGroups counts blank-line separated groups of short lines, the
// shape voter entries take in OCR output (name / relation / age-gender).
func shortLineGroups(text string) int {
	groups := 0
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if lines >= 2 && lines <= 6 {
				groups++
			}
			lines = 0
			continue
		}
		if len(line) <= 60 {
			lines++
		} else {
			lines = 0
		}
	}
	if lines >= 2 && lines <= 6 {
		groups++
	}
	return groups
}
