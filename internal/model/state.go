package model

import "github.com/shopspring/decimal"

// AppState is everything the application persists: the role preference,
// the venue catalog, the current session, session history and the wallet.
// It is saved as a whole after every transition.
type AppState struct {
	Role         Role            `json:"role"`
	Venues       []Venue         `json:"venues"`
	Current      *Session        `json:"current_session,omitempty"`
	History      []Session       `json:"session_history"`
	Balance      decimal.Decimal `json:"wallet_balance"`
	Transactions []Transaction   `json:"transactions"`
}
