package parse

import (
	"errors"
	"strings"
	"testing"
)

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare object", `{"voters": []}`, `{"voters": []}`, true},
		{"code fence", "```json\n{\"voters\": []}\n```", `{"voters": []}`, true},
		{"surrounding prose", `Here is the data: {"voters": []} Hope that helps!`, `{"voters": []}`, true},
		{"bare array", `[{"name": "X"}]`, `[{"name": "X"}]`, true},
		{"no payload", "I could not read the image.", "", false},
		{"broken json", `{"voters": [`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RecoverJSON(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseVoters(t *testing.T) {
	t.Run("document column labels", func(t *testing.T) {
		raw := `{"voters": [{"EPIC":"S22ABC1234","Name":"R Kumar","Relation":"Husband of S Kumar","Age":"34","Gender":"M","HouseNo":"12A"}]}`
		cands, err := ParseVoters(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cands) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(cands))
		}
		c := cands[0]
		if c.EPIC != "S22ABC1234" || c.Name != "R Kumar" {
			t.Errorf("identity fields mismatch: %+v", c)
		}
		if c.RelationType != RelationHusband || c.RelationName != "S Kumar" {
			t.Errorf("relation mismatch: %s / %s", c.RelationType, c.RelationName)
		}
		if c.Age != "34" || c.Gender != "M" || c.HouseNumber != "12A" {
			t.Errorf("attribute fields mismatch: %+v", c)
		}
		if !strings.Contains(c.Raw, "S22ABC1234") {
			t.Error("candidate lost its raw text")
		}
	})

	t.Run("snake_case keys with numeric age", func(t *testing.T) {
		raw := `{"voters": [{"epic_number":"ABC1234567","name":"L Devi","relation_type":"Father","relation_name":"M Raj","house_number":"14","age":41,"gender":"Female"}]}`
		cands, err := ParseVoters(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c := cands[0]
		if c.Age != "41" {
			t.Errorf("numeric age not normalized: %q", c.Age)
		}
		if c.RelationType != RelationFather || c.RelationName != "M Raj" {
			t.Errorf("relation mismatch: %s / %s", c.RelationType, c.RelationName)
		}
	})

	t.Run("bare array payload", func(t *testing.T) {
		cands, err := ParseVoters(`[{"epic_number":"ABC1234567","name":"X"}]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cands) != 1 {
			t.Errorf("expected 1 candidate, got %d", len(cands))
		}
	})

	t.Run("malformed content yields zero candidates", func(t *testing.T) {
		for _, raw := range []string{
			"no json here",
			`{"voters": []}`,
			`"just a string"`,
			`{}`,
		} {
			if _, err := ParseVoters(raw); !errors.Is(err, ErrNoRecords) {
				t.Errorf("raw %q: expected ErrNoRecords, got %v", raw, err)
			}
		}
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("json payload", func(t *testing.T) {
		raw := `{"part_no":"13","section_no":"2","booth_no":"42","location_name":"Govt High School","assembly_constituency":"133 - Anna Nagar"}`
		h, err := ParseHeader(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.PartNo != "13" || h.SectionNo != "2" || h.BoothNo != "42" {
			t.Errorf("header fields mismatch: %+v", h)
		}
		if h.AssemblyConstituency != "133 - Anna Nagar" {
			t.Errorf("constituency mismatch: %s", h.AssemblyConstituency)
		}
	})

	t.Run("text label fallback", func(t *testing.T) {
		raw := "Assembly Constituency: 133 - Anna Nagar\nPart No: 13\nSection No: 2\nPolling Station: Govt High School"
		h, err := ParseHeader(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.PartNo != "13" || h.SectionNo != "2" {
			t.Errorf("fallback missed keys: %+v", h)
		}
		if h.LocationName != "Govt High School" {
			t.Errorf("fallback missed location: %q", h.LocationName)
		}
	})

	t.Run("blank section is fatal", func(t *testing.T) {
		raw := `{"part_no":"13","section_no":""}`
		_, err := ParseHeader(raw)
		if !errors.Is(err, ErrMissingSectionNo) {
			t.Errorf("expected ErrMissingSectionNo, got %v", err)
		}
	})

	t.Run("missing part is fatal", func(t *testing.T) {
		_, err := ParseHeader(`{"section_no":"2"}`)
		if !errors.Is(err, ErrMissingPartNo) {
			t.Errorf("expected ErrMissingPartNo, got %v", err)
		}
	})
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		in       string
		wantType string
		wantName string
	}{
		{"Father of M Raj", RelationFather, "M Raj"},
		{"Husband of S Kumar", RelationHusband, "S Kumar"},
		{"mother of A Selvi", RelationMother, "A Selvi"},
		{"Guardian of B Anand", RelationOther, "Guardian of B Anand"},
		{"", RelationUnknown, ""},
		{"Husband", RelationHusband, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			relType, relName := ParseRelation(tt.in)
			if relType != tt.wantType || relName != tt.wantName {
				t.Errorf("ParseRelation(%q) = %s/%q, want %s/%q",
					tt.in, relType, relName, tt.wantType, tt.wantName)
			}
		})
	}
}

func TestPrompts(t *testing.T) {
	if !strings.Contains(VoterPrompt("RAW"), "RAW") {
		t.Error("voter prompt lost the OCR text")
	}
	if !strings.Contains(HeaderPrompt("RAW"), "part_no") {
		t.Error("header prompt lost the schema instruction")
	}
	long := strings.Repeat("x", maxPromptText+100)
	if len(VoterPrompt(long)) >= len(voterPromptTemplate)+len(long) {
		t.Error("long OCR text was not truncated")
	}
}
