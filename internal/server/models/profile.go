package models

import "time"

type Role string

const (
	RoleShipper Role = "shipper"
	RoleCarrier Role = "carrier"
	RoleInsurer Role = "insurer"
)

func (r Role) Valid() bool {
	return r == RoleShipper || r == RoleCarrier || r == RoleInsurer
}

// Profile is a marketplace participant identified by wallet address.
// Nonce is the one-time challenge the wallet must sign to log in.
type Profile struct {
	ID            string
	WalletAddress string
	DisplayName   string
	Role          Role
	Nonce         string
	CreatedAt     time.Time
}
