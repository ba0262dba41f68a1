package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/codec"
	"github.com/iliyamo/workspace-sessions/internal/model"
)

// Snapshot keys.
const (
	KeyRole           = "role"
	KeyDataVersion    = "dataVersion"
	KeyVenues         = "venues"
	KeyCurrentSession = "currentSession"
	KeySessionHistory = "sessionHistory"
	KeyWalletBalance  = "walletBalance"
	KeyTransactions   = "transactions"
)

// StateStore maps model.AppState onto a KV backend. Every key is decoded
// independently: a corrupt value falls back to that key's default and
// leaves the others intact.
type StateStore struct {
	kv      KV
	version string
	seed    func() []model.Venue
	logger  *log.Logger
}

// NewStateStore returns a StateStore. version is the catalog data version;
// a stored catalog written under any other version is replaced by seed().
func NewStateStore(kv KV, version string, seed func() []model.Venue) *StateStore {
	return &StateStore{kv: kv, version: version, seed: seed, logger: log.New("store")}
}

// Load reads the snapshot. Only backend failures are returned; missing or
// undecodable values are replaced by their defaults.
func (s *StateStore) Load(ctx context.Context) (model.AppState, error) {
	st := model.AppState{Role: model.RoleNone, Balance: decimal.Zero}

	var role string
	if ok, err := s.read(ctx, KeyRole, &role); err != nil {
		return model.AppState{}, err
	} else if ok {
		r, perr := model.ParseRole(role)
		if perr != nil {
			s.logger.Warnf("role: %v; using %s", perr, model.RoleNone)
		}
		st.Role = r
	}

	var version string
	if _, err := s.read(ctx, KeyDataVersion, &version); err != nil {
		return model.AppState{}, err
	}
	if version == s.version {
		if ok, err := s.read(ctx, KeyVenues, &st.Venues); err != nil {
			return model.AppState{}, err
		} else if !ok {
			st.Venues = nil
		}
	} else if version != "" {
		s.logger.Infof("catalog data version %q differs from %q; loading seed", version, s.version)
	}
	seeded := len(st.Venues) == 0
	if seeded {
		st.Venues = s.seed()
	}

	var current model.Session
	if ok, err := s.read(ctx, KeyCurrentSession, &current); err != nil {
		return model.AppState{}, err
	} else if ok {
		st.Current = &current
		if seeded {
			s.holdSeat(st.Venues, current)
		}
	}

	if ok, err := s.read(ctx, KeySessionHistory, &st.History); err != nil {
		return model.AppState{}, err
	} else if !ok {
		st.History = nil
	}

	var balance decimal.Decimal
	if ok, err := s.read(ctx, KeyWalletBalance, &balance); err != nil {
		return model.AppState{}, err
	} else if ok {
		st.Balance = balance
	}

	if ok, err := s.read(ctx, KeyTransactions, &st.Transactions); err != nil {
		return model.AppState{}, err
	} else if !ok {
		st.Transactions = nil
	}
	return st, nil
}

// holdSeat takes the seat of a session carried over onto a freshly seeded
// catalog, which has never seen that session's check-in.
func (s *StateStore) holdSeat(venues []model.Venue, current model.Session) {
	for i := range venues {
		if venues[i].ID != current.VenueID {
			continue
		}
		if venues[i].SeatsAvailable > 0 {
			venues[i].SeatsAvailable--
		} else {
			s.logger.Warnf("no free seat at %s for restored session %s", venues[i].Name, current.ID)
		}
		return
	}
	s.logger.Warnf("restored session %s refers to venue %s missing from the catalog", current.ID, current.VenueID)
}

// read decodes key into v. It reports false when the key is absent or
// fails to decode; v is left untouched in the absent case.
func (s *StateStore) read(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := codec.Unmarshal(data, v); err != nil {
		s.logger.Warnf("decode %s: %v; using default", key, err)
		return false, nil
	}
	return true, nil
}

// Save writes the whole snapshot in one atomic backend call. The current
// session key is deleted while no session is running.
func (s *StateStore) Save(ctx context.Context, st model.AppState) error {
	values := map[string]any{
		KeyRole:           string(st.Role),
		KeyDataVersion:    s.version,
		KeyVenues:         nonNil(st.Venues),
		KeySessionHistory: nonNil(st.History),
		KeyWalletBalance:  st.Balance,
		KeyTransactions:   nonNil(st.Transactions),
	}
	var del []string
	if st.Current != nil {
		values[KeyCurrentSession] = st.Current
	} else {
		del = append(del, KeyCurrentSession)
	}

	set := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := codec.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		set[k] = b
	}
	if err := s.kv.Apply(ctx, set, del); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Close releases the backend.
func (s *StateStore) Close() error { return s.kv.Close() }

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
