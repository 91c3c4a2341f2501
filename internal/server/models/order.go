// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType distinguishes cargo listings from vessel availability listings.
type OrderType string

const (
	OrderTypeCargo  OrderType = "cargo"
	OrderTypeVessel OrderType = "vessel"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeCargo || t == OrderTypeVessel
}

// OrderStatus is the soft lifecycle of an order. Orders are never deleted.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusMatched   OrderStatus = "matched"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusActive, OrderStatusMatched,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a cargo or vessel listing.
//
// Cargo orders use WeightTons and CargoType; vessel orders use CapacityTons,
// VesselName and IMONumber. TokenID, ContractAddress and TxHash are set once
// the listing NFT has been minted.
type Order struct {
	ID                  string
	Owner               string
	Type                OrderType
	Title               string
	OriginPort          string
	DestinationPort     string
	DepartureDate       time.Time
	ArrivalDate         time.Time
	WeightTons          decimal.Decimal
	CapacityTons        decimal.Decimal
	CargoType           string
	VesselName          string
	IMONumber           string
	Price               decimal.Decimal
	Status              OrderStatus
	InsuranceTemplateID *string
	InsurancePolicyID   *string
	TokenID             *string
	ContractAddress     *string
	TxHash              *string
	MetadataURI         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Marketplace is the public listing split into its two tabs.
type Marketplace struct {
	Cargo       []*Order
	Vessel      []*Order
	CargoCount  int
	VesselCount int
}

// PartitionOrders splits orders strictly by their Type field. Orders of an
// unknown type land in neither tab.
func PartitionOrders(orders []*Order) *Marketplace {
	m := &Marketplace{Cargo: []*Order{}, Vessel: []*Order{}}
	for _, o := range orders {
		switch o.Type {
		case OrderTypeCargo:
			m.Cargo = append(m.Cargo, o)
		case OrderTypeVessel:
			m.Vessel = append(m.Vessel, o)
		}
	}
	m.CargoCount = len(m.Cargo)
	m.VesselCount = len(m.Vessel)
	return m
}
