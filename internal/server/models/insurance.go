package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TriggerCondition is the externally observed metric of a parametric policy.
type TriggerCondition string

const (
	TriggerDelayHours         TriggerCondition = "delay_hours"
	TriggerWindKnots          TriggerCondition = "weather_wind_knots"
	TriggerPortCongestionDays TriggerCondition = "port_congestion_days"
	TriggerCargoTemperatureC  TriggerCondition = "cargo_temperature_c"
)

func (c TriggerCondition) Valid() bool {
	switch c {
	case TriggerDelayHours, TriggerWindKnots, TriggerPortCongestionDays, TriggerCargoTemperatureC:
		return true
	}
	return false
}

// InsuranceTemplate is a platform-defined parametric policy.
type InsuranceTemplate struct {
	ID               string
	Name             string
	Description      string
	TriggerCondition TriggerCondition
	Threshold        decimal.Decimal
	Premium          decimal.Decimal
	Payout           decimal.Decimal
	Active           bool
	CreatedAt        time.Time
}

// UserInsurancePolicy is a custom policy built by a user; minting is optional.
type UserInsurancePolicy struct {
	ID               string
	Owner            string
	Name             string
	TriggerCondition TriggerCondition
	Threshold        decimal.Decimal
	Premium          decimal.Decimal
	Payout           decimal.Decimal
	OrderID          *string
	TokenID          *string
	ContractAddress  *string
	TxHash           *string
	CreatedAt        time.Time
}

type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusTriggered PolicyStatus = "triggered"
	PolicyStatusPaidOut   PolicyStatus = "paid_out"
	PolicyStatusExpired   PolicyStatus = "expired"
)

// InsurancePolicy records a template applied to an order.
type InsurancePolicy struct {
	ID         string
	OrderID    string
	TemplateID string
	Holder     string
	Status     PolicyStatus
	CreatedAt  time.Time
}
