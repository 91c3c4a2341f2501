package models

import "time"

// Logical contract names used by the directory.
const (
	ContractCargoNFT     = "cargo_nft"
	ContractVesselNFT    = "vessel_nft"
	ContractJourneyNFT   = "journey_nft"
	ContractInsuranceNFT = "insurance_nft"
	ContractBrokerage    = "brokerage"
)

// SmartContract maps a logical contract name to its deployed address.
type SmartContract struct {
	Name      string
	Address   string
	Network   string
	ChainID   int64
	CreatedAt time.Time
}
