package store

import (
	"context"
	"fmt"
)

// Analysis summarizes the persisted voter set.
type Analysis struct {
	TotalVoters    int            `json:"total_voters" yaml:"total_voters"`
	GenderCounts   map[string]int `json:"gender_counts" yaml:"gender_counts"`
	AgeMin         int            `json:"age_min" yaml:"age_min"`
	AgeMax         int            `json:"age_max" yaml:"age_max"`
	AgeAvg         float64        `json:"age_avg" yaml:"age_avg"`
	YoungCohort    CohortStats    `json:"young_cohort" yaml:"young_cohort"`
	VotersPerBooth []BoothCount   `json:"voters_per_booth" yaml:"voters_per_booth"`
}

// CohortStats covers voters aged 18-29.
type CohortStats struct {
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
	AgeAvg  float64 `json:"age_avg" yaml:"age_avg"`
	Male    int     `json:"male" yaml:"male"`
	Female  int     `json:"female" yaml:"female"`
}

// BoothCount is the voter count for one polling station.
type BoothCount struct {
	StationID    int64  `json:"station_id" yaml:"station_id"`
	PartNo       string `json:"part_no" yaml:"part_no"`
	SectionNo    string `json:"section_no" yaml:"section_no"`
	LocationName string `json:"location_name" yaml:"location_name"`
	Voters       int    `json:"voters" yaml:"voters"`
}

// Analyze computes the roll summary over the persisted voters.
func (s *Store) Analyze(ctx context.Context) (*Analysis, error) {
	a := &Analysis{GenderCounts: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&a.TotalVoters); err != nil {
		return nil, fmt.Errorf("failed to count voters: %w", err)
	}
	if a.TotalVoters == 0 {
		return a, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT gender, COUNT(*) FROM voters GROUP BY gender`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gender distribution: %w", err)
	}
	for rows.Next() {
		var (
			gender string
			n      int
		)
		if err := rows.Scan(&gender, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan gender count: %w", err)
		}
		a.GenderCounts[gender] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT MIN(age), MAX(age), AVG(age) FROM voters`,
	).Scan(&a.AgeMin, &a.AgeMax, &a.AgeAvg)
	if err != nil {
		return nil, fmt.Errorf("failed to query age stats: %w", err)
	}

	var cohortAvg *float64
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        AVG(age),
		        COALESCE(SUM(CASE WHEN gender = 'Male' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN gender = 'Female' THEN 1 ELSE 0 END), 0)
		 FROM voters WHERE age >= 18 AND age <= 29`,
	).Scan(&a.YoungCohort.Count, &cohortAvg, &a.YoungCohort.Male, &a.YoungCohort.Female)
	if err != nil {
		return nil, fmt.Errorf("failed to query age cohort: %w", err)
	}
	if cohortAvg != nil {
		a.YoungCohort.AgeAvg = *cohortAvg
	}
	a.YoungCohort.Percent = float64(a.YoungCohort.Count) / float64(a.TotalVoters) * 100

	rows, err = s.db.QueryContext(ctx,
		`SELECT v.polling_station_id, p.part_no, p.section_no, p.location_name, COUNT(*)
		 FROM voters v
		 JOIN polling_stations p ON p.id = v.polling_station_id
		 GROUP BY v.polling_station_id, p.part_no, p.section_no, p.location_name
		 ORDER BY v.polling_station_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters per booth: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var bc BoothCount
		if err := rows.Scan(&bc.StationID, &bc.PartNo, &bc.SectionNo, &bc.LocationName, &bc.Voters); err != nil {
			return nil, fmt.Errorf("failed to scan booth count: %w", err)
		}
		a.VotersPerBooth = append(a.VotersPerBooth, bc)
	}
	return a, rows.Err()
}
