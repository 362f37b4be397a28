package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Header label patterns for the text fallback. Values run to end of line.
var headerLabels = map[string]*regexp.Regexp{
	"part_no":               regexp.MustCompile(`(?im)^\s*part\s*no\.?\s*[:\-]?\s*(\S+)`),
	"section_no":            regexp.MustCompile(`(?im)^\s*section\s*no\.?\s*[:\-]?\s*(\S+)`),
	"booth_no":              regexp.MustCompile(`(?im)^\s*booth\s*(?:no\.?)?\s*[:\-]?\s*(\S+)`),
	"location_name":         regexp.MustCompile(`(?im)^\s*(?:polling\s+station|location)\s*[:\-]?\s*(.+)$`),
	"assembly_constituency": regexp.MustCompile(`(?im)^\s*assembly\s+constituency\s*[:\-]?\s*(.+)$`),
}

// ParseHeader extracts polling-station metadata from a raw response.
// Field-labelled JSON is preferred; when no JSON payload is recoverable the
// raw text itself is matched against the printed labels. A header without
// both part_no and section_no cannot anchor voters and is a fatal parse
// error for the page.
func ParseHeader(raw string) (Header, error) {
	h := Header{Raw: raw}

	if payload, ok := RecoverJSON(raw); ok && validateHeaderPayload(payload) == nil {
		fields := make(map[string]flexValue)
		if err := json.Unmarshal(payload, &fields); err == nil {
			h.PartNo = lookup(fields, "part_no", "part")
			h.SectionNo = lookup(fields, "section_no", "section")
			h.BoothNo = lookup(fields, "booth_no", "booth")
			h.LocationName = lookup(fields, "location_name", "location", "polling_station")
			h.AssemblyConstituency = lookup(fields, "assembly_constituency", "constituency")
		}
	}

	// Last-resort label matching against the raw text for anything the
	// JSON path did not fill.
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if m := headerLabels[key].FindStringSubmatch(raw); m != nil {
			*dst = trimValue(m[1])
		}
	}
	fill(&h.PartNo, "part_no")
	fill(&h.SectionNo, "section_no")
	fill(&h.BoothNo, "booth_no")
	fill(&h.LocationName, "location_name")
	fill(&h.AssemblyConstituency, "assembly_constituency")

	if h.PartNo == "" {
		return Header{}, fmt.Errorf("%w: cannot associate voters without it", ErrMissingPartNo)
	}
	if h.SectionNo == "" {
		return Header{}, fmt.Errorf("%w: cannot associate voters without it", ErrMissingSectionNo)
	}
	return h, nil
}

var trailingPunct = regexp.MustCompile(`[\s,.;]+$`)

func trimValue(s string) string {
	return trailingPunct.ReplaceAllString(s, "")
}
