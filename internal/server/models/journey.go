package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarrierRoute is a scheduled voyage (journey) offered by a vessel owner.
// It always references a vessel order and exists only after a successful mint.
type CarrierRoute struct {
	ID                    string
	VesselOrderID         string
	Owner                 string
	OriginPort            string
	DestinationPort       string
	DepartureDate         time.Time
	ArrivalDate           time.Time
	AvailableCapacityTons decimal.Decimal
	PricePerTon           decimal.Decimal
	Status                OrderStatus
	TokenID               string
	ContractAddress       string
	TxHash                string
	CreatedAt             time.Time
}
