package store

import "time"

// Page statuses recorded in extraction_logs.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Station is a polling station identified by the (part_no, section_no) pair.
type Station struct {
	ID                   int64
	BoothNo              string
	PartNo               string
	SectionNo            string
	LocationName         string
	AssemblyConstituency string
}

// Voter is a single electoral-roll entry keyed by EPIC number.
type Voter struct {
	ID               int64
	EPICNumber       string
	Name             string
	RelationType     string
	RelationName     string
	HouseNumber      string
	Age              int
	Gender           string
	PollingStationID int64
	RawText          string
}

// PageLog is one row of the resumability ledger.
type PageLog struct {
	PageNumber   int
	Status       string
	ErrorMessage string
	ProcessedAt  time.Time
}
