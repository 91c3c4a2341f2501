package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RequestChallengeRequest struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

type RequestChallengeResponse struct {
	Address string `json:"address"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type GetWalletConfigRequest struct{}

type WalletConfig struct {
	ChainID   int64             `json:"chain_id"`
	Network   string            `json:"network"`
	RPCURL    string            `json:"rpc_url"`
	Contracts map[string]string `json:"contracts"`
}

type Contract struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Network string `json:"network"`
	ChainID int64  `json:"chain_id"`
}

type ListContractsRequest struct{}

type ListContractsResponse struct {
	Contracts []*Contract `json:"contracts"`
}

// Order is a cargo or vessel listing. Token fields are empty until minted.
type Order struct {
	ID                  string          `json:"id"`
	Owner               string          `json:"owner"`
	Type                string          `json:"type"`
	Title               string          `json:"title"`
	OriginPort          string          `json:"origin_port"`
	DestinationPort     string          `json:"destination_port"`
	DepartureDate       time.Time       `json:"departure_date"`
	ArrivalDate         time.Time       `json:"arrival_date"`
	WeightTons          decimal.Decimal `json:"weight_tons"`
	CapacityTons        decimal.Decimal `json:"capacity_tons"`
	CargoType           string          `json:"cargo_type,omitempty"`
	VesselName          string          `json:"vessel_name,omitempty"`
	IMONumber           string          `json:"imo_number,omitempty"`
	Price               decimal.Decimal `json:"price"`
	Status              string          `json:"status"`
	InsuranceTemplateID string          `json:"insurance_template_id,omitempty"`
	InsurancePolicyID   string          `json:"insurance_policy_id,omitempty"`
	TokenID             string          `json:"token_id,omitempty"`
	ContractAddress     string          `json:"contract_address,omitempty"`
	TxHash              string          `json:"tx_hash,omitempty"`
	MetadataURI         string          `json:"metadata_uri,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type ListMarketplaceRequest struct {
	Status string `json:"status,omitempty"`
}

type ListMarketplaceResponse struct {
	Cargo       []*Order `json:"cargo"`
	Vessel      []*Order `json:"vessel"`
	CargoCount  int      `json:"cargo_count"`
	VesselCount int      `json:"vessel_count"`
}

type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

type CreateCargoOrderRequest struct {
	Title               string          `json:"title"`
	OriginPort          string          `json:"origin_port"`
	DestinationPort     string          `json:"destination_port"`
	DepartureDate       time.Time       `json:"departure_date"`
	ArrivalDate         time.Time       `json:"arrival_date"`
	WeightTons          decimal.Decimal `json:"weight_tons"`
	CargoType           string          `json:"cargo_type"`
	Price               decimal.Decimal `json:"price"`
	InsuranceTemplateID string          `json:"insurance_template_id,omitempty"`
}

type RegisterVesselRequest struct {
	Title           string          `json:"title,omitempty"`
	VesselName      string          `json:"vessel_name"`
	IMONumber       string          `json:"imo_number"`
	OriginPort      string          `json:"origin_port"`
	DestinationPort string          `json:"destination_port"`
	DepartureDate   time.Time       `json:"departure_date"`
	ArrivalDate     time.Time       `json:"arrival_date"`
	CapacityTons    decimal.Decimal `json:"capacity_tons"`
	Price           decimal.Decimal `json:"price"`
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type UpdateOrderStatusResponse struct{}

type Journey struct {
	ID                    string          `json:"id"`
	VesselOrderID         string          `json:"vessel_order_id"`
	Owner                 string          `json:"owner"`
	OriginPort            string          `json:"origin_port"`
	DestinationPort       string          `json:"destination_port"`
	DepartureDate         time.Time       `json:"departure_date"`
	ArrivalDate           time.Time       `json:"arrival_date"`
	AvailableCapacityTons decimal.Decimal `json:"available_capacity_tons"`
	PricePerTon           decimal.Decimal `json:"price_per_ton"`
	Status                string          `json:"status"`
	TokenID               string          `json:"token_id"`
	ContractAddress       string          `json:"contract_address"`
	TxHash                string          `json:"tx_hash"`
	CreatedAt             time.Time       `json:"created_at"`
}

type LogJourneyRequest struct {
	VesselOrderID         string          `json:"vessel_order_id"`
	OriginPort            string          `json:"origin_port"`
	DestinationPort       string          `json:"destination_port"`
	DepartureDate         time.Time       `json:"departure_date"`
	ArrivalDate           time.Time       `json:"arrival_date"`
	AvailableCapacityTons decimal.Decimal `json:"available_capacity_tons"`
	PricePerTon           decimal.Decimal `json:"price_per_ton"`
}

type ListJourneysRequest struct {
	VesselOrderID string `json:"vessel_order_id,omitempty"`
}

type ListJourneysResponse struct {
	Journeys []*Journey `json:"journeys"`
}

type InsuranceTemplate struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	TriggerCondition string          `json:"trigger_condition"`
	Threshold        decimal.Decimal `json:"threshold"`
	Premium          decimal.Decimal `json:"premium"`
	Payout           decimal.Decimal `json:"payout"`
}

type ListInsuranceTemplatesRequest struct{}

type ListInsuranceTemplatesResponse struct {
	Templates []*InsuranceTemplate `json:"templates"`
}

type ApplyInsuranceTemplateRequest struct {
	OrderID    string `json:"order_id"`
	TemplateID string `json:"template_id"`
}

type InsurancePolicy struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	TemplateID string    `json:"template_id"`
	Holder     string    `json:"holder"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserPolicy struct {
	ID               string          `json:"id"`
	Owner            string          `json:"owner"`
	Name             string          `json:"name"`
	TriggerCondition string          `json:"trigger_condition"`
	Threshold        decimal.Decimal `json:"threshold"`
	Premium          decimal.Decimal `json:"premium"`
	Payout           decimal.Decimal `json:"payout"`
	OrderID          string          `json:"order_id,omitempty"`
	TokenID          string          `json:"token_id,omitempty"`
	ContractAddress  string          `json:"contract_address,omitempty"`
	TxHash           string          `json:"tx_hash,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type CreateInsurancePolicyRequest struct {
	Name             string          `json:"name"`
	TriggerCondition string          `json:"trigger_condition"`
	Threshold        decimal.Decimal `json:"threshold"`
	Premium          decimal.Decimal `json:"premium"`
	Payout           decimal.Decimal `json:"payout"`
	OrderID          string          `json:"order_id,omitempty"`
	Mint             bool            `json:"mint"`
}

type ListUserPoliciesRequest struct{}

type ListUserPoliciesResponse struct {
	Custom []*UserPolicy      `json:"custom"`
	Issued []*InsurancePolicy `json:"issued"`
}

type Match struct {
	ID            string          `json:"id"`
	CargoOrderID  string          `json:"cargo_order_id"`
	VesselOrderID string          `json:"vessel_order_id"`
	AgreedPrice   decimal.Decimal `json:"agreed_price"`
	ProposedBy    string          `json:"proposed_by"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateMatchRequest struct {
	CargoOrderID  string          `json:"cargo_order_id"`
	VesselOrderID string          `json:"vessel_order_id"`
	AgreedPrice   decimal.Decimal `json:"agreed_price"`
}

type RespondMatchRequest struct {
	MatchID string `json:"match_id"`
	Accept  bool   `json:"accept"`
}

type ListMatchesRequest struct{}

type ListMatchesResponse struct {
	Matches []*Match `json:"matches"`
}

type GetPortfolioRequest struct{}

type Portfolio struct {
	Orders   []*Order           `json:"orders"`
	Journeys []*Journey         `json:"journeys"`
	Custom   []*UserPolicy      `json:"custom_policies"`
	Issued   []*InsurancePolicy `json:"issued_policies"`
	Matches  []*Match           `json:"matches"`
}

// AssessRiskRequest names a stored order, or describes a route inline.
type AssessRiskRequest struct {
	OrderID         string    `json:"order_id,omitempty"`
	OriginPort      string    `json:"origin_port,omitempty"`
	DestinationPort string    `json:"destination_port,omitempty"`
	DepartureDate   time.Time `json:"departure_date,omitempty"`
	ArrivalDate     time.Time `json:"arrival_date,omitempty"`
	CargoType       string    `json:"cargo_type,omitempty"`
	WeightTons      float64   `json:"weight_tons,omitempty"`
	VesselName      string    `json:"vessel_name,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

type RiskAssessment struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
	Summary string   `json:"summary"`
	Source  string   `json:"source"`
}
