package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MatchStatus string

const (
	MatchStatusProposed MatchStatus = "proposed"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
)

// OrderMatch pairs a cargo order with a vessel order at an agreed price.
// ProposedBy is the wallet that created it; the other side answers.
type OrderMatch struct {
	ID            string
	CargoOrderID  string
	VesselOrderID string
	AgreedPrice   decimal.Decimal
	ProposedBy    string
	Status        MatchStatus
	CreatedAt     time.Time
}
