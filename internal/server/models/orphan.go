package models

import "time"

// OrphanedMint journals an on-chain mint whose database write failed, so an
// operator can reconcile it later.
type OrphanedMint struct {
	TxHash          string
	Flow            string
	TokenID         string
	ContractAddress string
	Owner           string
	Payload         []byte
	Error           string
	CreatedAt       time.Time
}
