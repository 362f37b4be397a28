// Package validate normalizes and filters candidate voter records. A batch
// of N candidates yields 0..N accepted records plus the rejections with
// reasons; partial success is the normal case.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arvindh/rollscan/internal/parse"
	"github.com/arvindh/rollscan/internal/store"
)

// Rejection reasons. Stable strings, they end up in logs and run summaries.
const (
	ReasonInvalidAge  = "invalid_age"
	ReasonInvalidEPIC = "invalid_epic"
)

// Gender values after normalization.
const (
	GenderMale    = "Male"
	GenderFemale  = "Female"
	GenderOther   = "Other"
	GenderUnknown = "Unknown"
)

const (
	minAge = 0
	maxAge = 130
)

// epicPattern accepts alphanumeric identifiers that start with a letter and
// end with digits (e.g. ABC1234567, S22ABC1234). Anything else cannot be
// safely deduplicated later.
var epicPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*[0-9]+$`)

// Rejection pairs a rejected candidate with the reason.
type Rejection struct {
	Candidate parse.VoterCandidate
	Reason    string
}

// Voter checks a single candidate. Age outside [0,130] or a malformed EPIC
// rejects the record; an unrecognized gender is recoverable and accepted as
// Unknown.
func Voter(c parse.VoterCandidate) (store.Voter, string) {
	epic := strings.ToUpper(strings.TrimSpace(c.EPIC))
	if !epicPattern.MatchString(epic) {
		return store.Voter{}, ReasonInvalidEPIC
	}

	age, err := strconv.Atoi(strings.TrimSpace(c.Age))
	if err != nil || age < minAge || age > maxAge {
		return store.Voter{}, ReasonInvalidAge
	}

	return store.Voter{
		EPICNumber:   epic,
		Name:         strings.TrimSpace(c.Name),
		RelationType: c.RelationType,
		RelationName: strings.TrimSpace(c.RelationName),
		HouseNumber:  strings.TrimSpace(c.HouseNumber),
		Age:          age,
		Gender:       NormalizeGender(c.Gender),
		RawText:      c.Raw,
	}, ""
}

// Batch validates candidates independently and splits them into accepted
// voters and rejections. PollingStationID is left unset; the orchestrator
// stamps the active station context before persisting.
func Batch(candidates []parse.VoterCandidate) ([]store.Voter, []Rejection) {
	var (
		accepted []store.Voter
		rejected []Rejection
	)
	for _, c := range candidates {
		v, reason := Voter(c)
		if reason != "" {
			rejected = append(rejected, Rejection{Candidate: c, Reason: reason})
			continue
		}
		accepted = append(accepted, v)
	}
	return accepted, rejected
}

// NormalizeGender maps common tokens onto the gender enum. Ambiguity is
// recoverable: anything unrecognized becomes Unknown rather than rejecting
// the record.
func NormalizeGender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return GenderMale
	case "f", "female":
		return GenderFemale
	case "o", "other", "third gender", "transgender":
		return GenderOther
	default:
		return GenderUnknown
	}
}
