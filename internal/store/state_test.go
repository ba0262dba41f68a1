package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/catalog"
	"github.com/iliyamo/workspace-sessions/internal/clock"
	"github.com/iliyamo/workspace-sessions/internal/engine"
	"github.com/iliyamo/workspace-sessions/internal/model"
)

func sampleState() model.AppState {
	venues := catalog.Seed()
	venues[0].SeatsAvailable--
	start := time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC)
	current := model.Session{
		ID:         uuid.New(),
		VenueID:    venues[0].ID,
		VenueName:  venues[0].Name,
		StartTime:  start,
		EndTime:    start.Add(90 * time.Minute),
		Price:      venues[0].PricePerSession,
		HolderName: "You",
	}
	return model.AppState{
		Role:    model.RoleUser,
		Venues:  venues,
		Current: &current,
		Balance: decimal.RequireFromString("0.50"),
		Transactions: []model.Transaction{
			{ID: uuid.New(), Time: start, Description: "Session at " + venues[0].Name, Amount: decimal.RequireFromString("-2"), Applied: decimal.Zero},
			{ID: uuid.New(), Time: start, Description: "Cashback reward", Amount: decimal.RequireFromString("0.50"), Applied: decimal.RequireFromString("0.50")},
		},
	}
}

func newMemoryStore() (*StateStore, *MemoryKV) {
	kv := NewMemoryKV()
	return NewStateStore(kv, catalog.SeedVersion(), catalog.Seed), kv
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()
	in := sampleState()
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Role != model.RoleUser {
		t.Fatalf("Role = %s, want user", out.Role)
	}
	if out.Current == nil || out.Current.ID != in.Current.ID || !out.Current.EndTime.Equal(in.Current.EndTime) {
		t.Fatalf("Current = %+v, want %+v", out.Current, in.Current)
	}
	if out.Venues[0].SeatsAvailable != in.Venues[0].SeatsAvailable {
		t.Fatalf("seats = %d, want %d", out.Venues[0].SeatsAvailable, in.Venues[0].SeatsAvailable)
	}
	if !out.Balance.Equal(in.Balance) {
		t.Fatalf("Balance = %s, want %s", out.Balance, in.Balance)
	}
	if len(out.Transactions) != 2 || !out.Transactions[0].Amount.Equal(decimal.RequireFromString("-2")) {
		t.Fatalf("Transactions = %+v", out.Transactions)
	}
}

func TestLoadEmptyBackendGivesDefaults(t *testing.T) {
	s, _ := newMemoryStore()
	st, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Role != model.RoleNone || st.Current != nil || len(st.History) != 0 || !st.Balance.IsZero() {
		t.Fatalf("defaults = %+v", st)
	}
	if len(st.Venues) != len(catalog.Seed()) {
		t.Fatalf("len(Venues) = %d, want seed", len(st.Venues))
	}
}

func TestSaveIdleDeletesCurrentSession(t *testing.T) {
	ctx := context.Background()
	s, kv := newMemoryStore()
	st := sampleState()
	s.Save(ctx, st)
	st.Current = nil
	if err := s.Save(ctx, st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := kv.Get(ctx, KeyCurrentSession); err != ErrNotFound {
		t.Fatalf("Get(currentSession) err = %v, want ErrNotFound", err)
	}
}

func TestCorruptKeyFallsBackAlone(t *testing.T) {
	ctx := context.Background()
	s, kv := newMemoryStore()
	s.Save(ctx, sampleState())
	kv.Apply(ctx, map[string][]byte{
		KeyTransactions: []byte("not cbor"),
		KeyRole:         {0x63, 'b', 'a', 'd'}, // text "bad"
	}, nil)

	st, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(st.Transactions) != 0 {
		t.Fatalf("Transactions = %+v, want empty", st.Transactions)
	}
	if st.Role != model.RoleNone {
		t.Fatalf("Role = %s, want none", st.Role)
	}
	if st.Current == nil || !st.Balance.Equal(decimal.RequireFromString("0.50")) {
		t.Fatal("undamaged keys were not loaded")
	}
}

func TestDataVersionMismatchLoadsSeed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	old := NewStateStore(kv, "v2-old", catalog.Seed)
	st := sampleState()
	st.Venues[0].Name = "Renamed"
	old.Save(ctx, st)

	s := NewStateStore(kv, catalog.SeedVersion(), catalog.Seed)
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Venues[0].Name == "Renamed" {
		t.Fatal("stale catalog survived a version change")
	}
	if got.Current == nil {
		t.Fatal("version change dropped the current session")
	}
	seed := catalog.Seed()
	if got.Venues[0].SeatsAvailable != seed[0].SeatsAvailable-1 {
		t.Fatalf("seats at %s = %d, want %d with the restored session holding one",
			got.Venues[0].Name, got.Venues[0].SeatsAvailable, seed[0].SeatsAvailable-1)
	}
	for i := 1; i < len(seed); i++ {
		if got.Venues[i].SeatsAvailable != seed[i].SeatsAvailable {
			t.Fatalf("seats at %s = %d, want seed value %d", got.Venues[i].Name, got.Venues[i].SeatsAvailable, seed[i].SeatsAvailable)
		}
	}
}

func TestDataVersionMismatchWithoutSessionKeepsSeedSeats(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	st := sampleState()
	st.Current = nil
	NewStateStore(kv, "v2-old", catalog.Seed).Save(ctx, st)

	got, err := NewStateStore(kv, catalog.SeedVersion(), catalog.Seed).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	seed := catalog.Seed()
	if got.Venues[0].SeatsAvailable != seed[0].SeatsAvailable {
		t.Fatalf("seats = %d, want seed value %d", got.Venues[0].SeatsAvailable, seed[0].SeatsAvailable)
	}
}

func TestSessionSurvivesCatalogVersionChange(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	fc := clock.Fake(time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC))
	venue := catalog.Seed()[0]

	before := engine.New(engine.Options{Clock: fc, Store: NewStateStore(kv, "v2-old", catalog.Seed), Location: time.UTC})
	if _, err := before.CheckIn(venue.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	s := NewStateStore(kv, catalog.SeedVersion(), catalog.Seed)
	st, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	after := engine.New(engine.Options{Clock: fc, Store: s, Location: time.UTC})
	after.Restore(st)

	v, err := after.Venue(venue.ID)
	if err != nil {
		t.Fatalf("Venue: %v", err)
	}
	if v.SeatsAvailable != venue.SeatsAvailable-1 {
		t.Fatalf("seats after restore = %d, want %d", v.SeatsAvailable, venue.SeatsAvailable-1)
	}
	if _, err := after.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if v, _ = after.Venue(venue.ID); v.SeatsAvailable != venue.SeatsAvailable {
		t.Fatalf("seats after end = %d, want seed value %d", v.SeatsAvailable, venue.SeatsAvailable)
	}
}
