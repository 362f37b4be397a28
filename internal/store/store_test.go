package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return s
}

func TestUpsertStation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	st := Station{
		BoothNo:              "42",
		PartNo:               "13",
		SectionNo:            "2",
		LocationName:         "Govt High School",
		AssemblyConstituency: "133 - Anna Nagar",
	}

	id1, err := s.UpsertStation(ctx, st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id1 == 0 {
		t.Fatal("expected non-zero station id")
	}

	t.Run("same key returns existing id", func(t *testing.T) {
		id2, err := s.UpsertStation(ctx, st)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id2 != id1 {
			t.Errorf("expected id %d, got %d", id1, id2)
		}
	})

	t.Run("first write wins on field mismatch", func(t *testing.T) {
		conflicting := st
		conflicting.LocationName = "Different Building"
		id2, err := s.UpsertStation(ctx, conflicting)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id2 != id1 {
			t.Errorf("expected id %d, got %d", id1, id2)
		}
		stored, err := s.GetStation(ctx, id1)
		if err != nil {
			t.Fatalf("failed to read station: %v", err)
		}
		if stored.LocationName != "Govt High School" {
			t.Errorf("stored fields were overwritten: %s", stored.LocationName)
		}
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		_, err := s.UpsertStation(ctx, Station{PartNo: "13"})
		if !errors.Is(err, ErrMissingStationKey) {
			t.Errorf("expected ErrMissingStationKey, got %v", err)
		}
	})
}

func TestInsertVoter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	stationID, err := s.UpsertStation(ctx, Station{PartNo: "1", SectionNo: "1"})
	if err != nil {
		t.Fatalf("failed to create station: %v", err)
	}

	v := Voter{
		EPICNumber:       "S22ABC1234",
		Name:             "R Kumar",
		RelationType:     "Husband",
		RelationName:     "S Kumar",
		HouseNumber:      "12A",
		Age:              34,
		Gender:           "Male",
		PollingStationID: stationID,
		RawText:          `{"EPIC":"S22ABC1234"}`,
	}

	if _, err := s.InsertVoter(ctx, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("duplicate epic fails loudly", func(t *testing.T) {
		_, err := s.InsertVoter(ctx, v)
		if !errors.Is(err, ErrDuplicateEPIC) {
			t.Errorf("expected ErrDuplicateEPIC, got %v", err)
		}
		n, err := s.CountVoters(ctx)
		if err != nil {
			t.Fatalf("failed to count voters: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 voter after duplicate attempt, got %d", n)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := s.GetVoterByEPIC(ctx, "S22ABC1234")
		if err != nil {
			t.Fatalf("failed to read voter: %v", err)
		}
		if got.Age != 34 || got.Gender != "Male" || got.PollingStationID != stationID {
			t.Errorf("voter fields mismatch: %+v", got)
		}
	})
}

func TestRecordPageStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.RecordPageStatus(ctx, 3, StatusFailed, "rasterize_error"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("overwrites prior row", func(t *testing.T) {
		if err := s.RecordPageStatus(ctx, 3, StatusCompleted, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		l, err := s.GetPageLog(ctx, 3)
		if err != nil {
			t.Fatalf("failed to read log: %v", err)
		}
		if l.Status != StatusCompleted {
			t.Errorf("expected COMPLETED, got %s", l.Status)
		}
		counts, err := s.PageStatusCounts(ctx)
		if err != nil {
			t.Fatalf("failed to count statuses: %v", err)
		}
		if counts[StatusCompleted] != 1 || counts[StatusFailed] != 0 {
			t.Errorf("page 3 duplicated in ledger: %v", counts)
		}
	})

	t.Run("unattempted page has no row", func(t *testing.T) {
		_, err := s.GetPageLog(ctx, 99)
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("expected sql.ErrNoRows, got %v", err)
		}
	})
}

func TestLastProcessedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("empty ledger is the zero time", func(t *testing.T) {
		ts, err := s.LastProcessedAt(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ts.IsZero() {
			t.Errorf("expected zero time, got %v", ts)
		}
	})

	t.Run("reflects the latest ledger write", func(t *testing.T) {
		if err := s.RecordPageStatus(ctx, 1, StatusCompleted, ""); err != nil {
			t.Fatalf("failed to record status: %v", err)
		}
		ts, err := s.LastProcessedAt(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ts.IsZero() {
			t.Error("expected a non-zero timestamp after a ledger write")
		}
	})
}

func TestCompletedAndFailedPages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.RecordPageStatus(ctx, 1, StatusCompleted, "")
	_ = s.RecordPageStatus(ctx, 2, StatusFailed, "no_active_station")
	_ = s.RecordPageStatus(ctx, 3, StatusCompleted, "")
	_ = s.RecordPageStatus(ctx, 5, StatusFailed, "unclassified_page")

	done, err := s.CompletedPages(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done[1] || !done[3] || done[2] || done[5] {
		t.Errorf("unexpected completed set: %v", done)
	}

	failed, err := s.FailedPages(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failed) != 2 {
		t.Fatalf("expected 2 failed pages, got %d", len(failed))
	}
	if failed[0].PageNumber != 2 || failed[1].PageNumber != 5 {
		t.Errorf("failed pages out of order: %+v", failed)
	}
	if failed[0].ErrorMessage != "no_active_station" {
		t.Errorf("missing error message: %+v", failed[0])
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("empty database", func(t *testing.T) {
		a, err := s.Analyze(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.TotalVoters != 0 {
			t.Errorf("expected zero voters, got %d", a.TotalVoters)
		}
	})

	stationID, _ := s.UpsertStation(ctx, Station{PartNo: "1", SectionNo: "1", LocationName: "School"})
	voters := []Voter{
		{EPICNumber: "ABC0000001", Age: 22, Gender: "Male", PollingStationID: stationID},
		{EPICNumber: "ABC0000002", Age: 27, Gender: "Female", PollingStationID: stationID},
		{EPICNumber: "ABC0000003", Age: 64, Gender: "Male", PollingStationID: stationID},
		{EPICNumber: "ABC0000004", Age: 45, Gender: "Female", PollingStationID: stationID},
	}
	for _, v := range voters {
		if _, err := s.InsertVoter(ctx, v); err != nil {
			t.Fatalf("failed to insert voter: %v", err)
		}
	}

	a, err := s.Analyze(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TotalVoters != 4 {
		t.Errorf("expected 4 voters, got %d", a.TotalVoters)
	}
	if a.GenderCounts["Male"] != 2 || a.GenderCounts["Female"] != 2 {
		t.Errorf("unexpected gender counts: %v", a.GenderCounts)
	}
	if a.AgeMin != 22 || a.AgeMax != 64 {
		t.Errorf("unexpected age bounds: min=%d max=%d", a.AgeMin, a.AgeMax)
	}
	if a.YoungCohort.Count != 2 || a.YoungCohort.Male != 1 || a.YoungCohort.Female != 1 {
		t.Errorf("unexpected cohort stats: %+v", a.YoungCohort)
	}
	if a.YoungCohort.Percent != 50 {
		t.Errorf("expected 50%% cohort share, got %v", a.YoungCohort.Percent)
	}
	if len(a.VotersPerBooth) != 1 || a.VotersPerBooth[0].Voters != 4 {
		t.Errorf("unexpected booth counts: %+v", a.VotersPerBooth)
	}
}
