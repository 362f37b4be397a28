// Package parse maps raw OCR/LLM output onto typed candidate records.
// Malformed content never panics or errors the run: it yields zero
// candidates plus a diagnostic the caller attaches to the page's log entry.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoRecords is returned when a response contains no parseable
	// voter records.
	ErrNoRecords = errors.New("no records in response")

	// ErrMissingPartNo and ErrMissingSectionNo mark a header page that
	// cannot anchor subsequent voters. Fatal for the page.
	ErrMissingPartNo    = errors.New("header missing part_no")
	ErrMissingSectionNo = errors.New("header missing section_no")
)

// VoterCandidate is one voter row as the model reported it, before
// validation. Raw retains the verbatim JSON fragment for audit.
type VoterCandidate struct {
	EPIC         string
	Name         string
	RelationType string
	RelationName string
	HouseNumber  string
	Age          string
	Gender       string
	Raw          string
}

// Header carries polling-station metadata from a header page.
type Header struct {
	PartNo               string
	SectionNo            string
	BoothNo              string
	LocationName         string
	AssemblyConstituency string
	Raw                  string
}

// jsonPayload matches the first JSON object or array in a response.
var jsonPayload = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)

// RecoverJSON digs a JSON payload out of an LLM response: code fences are
// stripped and the outermost object or array is extracted from surrounding
// prose. Returns false when no payload is present.
func RecoverJSON(raw string) (json.RawMessage, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	match := jsonPayload.FindString(cleaned)
	if match == "" {
		return nil, false
	}
	if !json.Valid([]byte(match)) {
		return nil, false
	}
	return json.RawMessage(match), true
}

// ParseVoters extracts voter candidates from a raw LLM response. The
// payload may be a bare array of rows or an object with a "voters" array;
// rows may use either the prompt's snake_case keys or the document's
// column labels (EPIC, Name, Relation, HouseNo...).
func ParseVoters(raw string) ([]VoterCandidate, error) {
	payload, ok := RecoverJSON(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON payload", ErrNoRecords)
	}
	if err := validateVotersPayload(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRecords, err)
	}

	var rows []json.RawMessage
	var bare []json.RawMessage
	if err := json.Unmarshal(payload, &bare); err == nil {
		rows = bare
	} else {
		var wrapper struct {
			Voters []json.RawMessage `json:"voters"`
		}
		if err := json.Unmarshal(payload, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoRecords, err)
		}
		rows = wrapper.Voters
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	candidates := make([]VoterCandidate, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]flexValue)
		if err := json.Unmarshal(row, &fields); err != nil {
			continue
		}
		c := VoterCandidate{
			EPIC:        lookup(fields, "epic_number", "epic", "epic_no"),
			Name:        lookup(fields, "name", "voter_name"),
			HouseNumber: lookup(fields, "house_number", "houseno", "house_no"),
			Age:         lookup(fields, "age"),
			Gender:      lookup(fields, "gender", "sex"),
			Raw:         string(row),
		}
		c.RelationType = lookup(fields, "relation_type")
		c.RelationName = lookup(fields, "relation_name")
		if c.RelationType == "" && c.RelationName == "" {
			c.RelationType, c.RelationName = ParseRelation(lookup(fields, "relation"))
		} else {
			c.RelationType, c.RelationName = normalizeRelation(c.RelationType, c.RelationName)
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, ErrNoRecords
	}
	return candidates, nil
}

// flexValue tolerates the model returning numbers where strings were asked
// for (and vice versa).
type flexValue string

func (f *flexValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexValue(s)
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	*f = flexValue(trimmed)
	return nil
}

// lookup finds the first matching key, case-insensitively.
func lookup(fields map[string]flexValue, keys ...string) string {
	for k, v := range fields {
		norm := strings.ToLower(strings.ReplaceAll(k, " ", "_"))
		for _, want := range keys {
			if norm == want {
				return strings.TrimSpace(string(v))
			}
		}
	}
	return ""
}
