package parse

import "strings"

// Relation types recognized on voter rows.
const (
	RelationFather  = "Father"
	RelationHusband = "Husband"
	RelationMother  = "Mother"
	RelationOther   = "Other"
	RelationUnknown = "Unknown"
)

// ParseRelation splits a combined relation string like "Husband of S Kumar"
// into a relation type and the relative's name. Unrecognized prefixes map
// to Other with the full string kept verbatim as the name.
func ParseRelation(s string) (relType, relName string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RelationUnknown, ""
	}

	lower := strings.ToLower(s)
	for _, rel := range []string{RelationFather, RelationHusband, RelationMother} {
		prefix := strings.ToLower(rel)
		if lower == prefix {
			return rel, ""
		}
		if strings.HasPrefix(lower, prefix+" of") {
			return rel, strings.TrimSpace(s[len(prefix)+len(" of"):])
		}
		if strings.HasPrefix(lower, prefix+":") {
			return rel, strings.TrimSpace(s[len(prefix)+1:])
		}
	}
	return RelationOther, s
}

// normalizeRelation maps an already-split relation type onto the enum.
func normalizeRelation(relType, relName string) (string, string) {
	switch strings.ToLower(strings.TrimSpace(relType)) {
	case "father", "f":
		return RelationFather, relName
	case "husband", "h":
		return RelationHusband, relName
	case "mother", "m":
		return RelationMother, relName
	case "":
		if relName == "" {
			return RelationUnknown, ""
		}
		return RelationOther, relName
	default:
		return RelationOther, relName
	}
}
