package classify

import "testing"

const headerText = `Electoral Roll 2026

Assembly Constituency: 133 - Anna Nagar
Part No: 13
Section No: 2
Polling Station: Govt High School, Main Road`

const dataText = `1  S22ABC1234567
Name: R Kumar
Husband of S Kumar
House No: 12A  Age: 34  Gender: M

2  S22DEF2345678
Name: L Devi
Father of M Raj
House No: 14  Age: 41  Gender: F

3  S22GHI3456789
Name: P Selvi
Mother of A Selvi
House No: 15  Age: 58  Gender: F`

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want PageType
	}{
		{"header page", headerText, Header},
		{"data page with epic tokens", dataText, Data},
		{"empty page", "", Unknown},
		{"cover page prose", "DRAFT ELECTORAL ROLL\nRevision 1\nPublished under rule 11", Unknown},
		{"header marker needs part label", "Assembly Constituency: 133 - Anna Nagar", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyHeaderBeatsData(t *testing.T) {
	// A header page can also show row-like structure below the banner;
	// the section marker wins.
	if got := Classify(headerText + "\n\n" + dataText); got != Header {
		t.Errorf("expected HEADER, got %s", got)
	}
}

func TestShortLineGroups(t *testing.T) {
	if got := shortLineGroups(dataText); got < 3 {
		t.Errorf("expected at least 3 row groups, got %d", got)
	}
	if got := shortLineGroups(""); got != 0 {
		t.Errorf("expected 0 groups on empty text, got %d", got)
	}
}
