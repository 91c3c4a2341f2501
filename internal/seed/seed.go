// Package seed loads demo fixtures (contract directory, insurance templates,
// profiles, orders and journeys) into the marketplace database.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/logging"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Contract struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Network string `yaml:"network"`
	ChainID int64  `yaml:"chain_id"`
}

type Template struct {
	ID               string                  `yaml:"id"`
	Name             string                  `yaml:"name"`
	Description      string                  `yaml:"description"`
	TriggerCondition models.TriggerCondition `yaml:"trigger_condition"`
	Threshold        decimal.Decimal         `yaml:"threshold"`
	Premium          decimal.Decimal         `yaml:"premium"`
	Payout           decimal.Decimal         `yaml:"payout"`
}

type Profile struct {
	ID            string      `yaml:"id"`
	WalletAddress string      `yaml:"wallet_address"`
	DisplayName   string      `yaml:"display_name"`
	Role          models.Role `yaml:"role"`
}

type Order struct {
	ID              string           `yaml:"id"`
	Owner           string           `yaml:"owner"`
	Type            models.OrderType `yaml:"type"`
	Title           string           `yaml:"title"`
	OriginPort      string           `yaml:"origin_port"`
	DestinationPort string           `yaml:"destination_port"`
	DepartureDate   time.Time        `yaml:"departure_date"`
	ArrivalDate     time.Time        `yaml:"arrival_date"`
	WeightTons      decimal.Decimal  `yaml:"weight_tons"`
	CapacityTons    decimal.Decimal  `yaml:"capacity_tons"`
	CargoType       string           `yaml:"cargo_type"`
	VesselName      string           `yaml:"vessel_name"`
	IMONumber       string           `yaml:"imo_number"`
	Price           decimal.Decimal  `yaml:"price"`
}

type Journey struct {
	ID                    string          `yaml:"id"`
	VesselOrderID         string          `yaml:"vessel_order_id"`
	Owner                 string          `yaml:"owner"`
	OriginPort            string          `yaml:"origin_port"`
	DestinationPort       string          `yaml:"destination_port"`
	DepartureDate         time.Time       `yaml:"departure_date"`
	ArrivalDate           time.Time       `yaml:"arrival_date"`
	AvailableCapacityTons decimal.Decimal `yaml:"available_capacity_tons"`
	PricePerTon           decimal.Decimal `yaml:"price_per_ton"`
	TokenID               string          `yaml:"token_id"`
	ContractAddress       string          `yaml:"contract_address"`
	TxHash                string          `yaml:"tx_hash"`
}

// Fixtures is the parsed content of a fixtures file.
type Fixtures struct {
	Contracts []Contract `yaml:"contracts"`
	Templates []Template `yaml:"templates"`
	Profiles  []Profile  `yaml:"profiles"`
	Orders    []Order    `yaml:"orders"`
	Journeys  []Journey  `yaml:"journeys"`
}

// Default returns the fixtures embedded in the binary.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// Parse decodes and checks a fixtures document. Wallet and contract
// addresses are normalized to lower-case hex.
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixtures) normalize() error {
	verr := &common.ValidationError{}

	for i := range f.Contracts {
		c := &f.Contracts[i]
		c.Address = common.NormalizeAddress(c.Address)
		if c.Name == "" || c.Address == "" {
			verr.Add(fmt.Sprintf("contracts[%d]", i), "name and address are required")
		}
	}
	for i := range f.Templates {
		t := &f.Templates[i]
		if !t.TriggerCondition.Valid() {
			verr.Add(fmt.Sprintf("templates[%d].trigger_condition", i), "unknown trigger")
		}
		if !t.Payout.IsPositive() {
			verr.Add(fmt.Sprintf("templates[%d].payout", i), "must be positive")
		}
	}
	for i := range f.Profiles {
		p := &f.Profiles[i]
		p.WalletAddress = common.NormalizeAddress(p.WalletAddress)
		if !p.Role.Valid() {
			verr.Add(fmt.Sprintf("profiles[%d].role", i), "unknown role")
		}
	}

	vessels := map[string]bool{}
	for i := range f.Orders {
		o := &f.Orders[i]
		o.Owner = common.NormalizeAddress(o.Owner)
		if !o.Type.Valid() {
			verr.Add(fmt.Sprintf("orders[%d].type", i), "must be cargo or vessel")
		}
		if o.ArrivalDate.Before(o.DepartureDate) {
			verr.Add(fmt.Sprintf("orders[%d].arrival_date", i), "before departure")
		}
		if o.Type == models.OrderTypeVessel {
			vessels[o.ID] = true
		}
	}
	for i := range f.Journeys {
		j := &f.Journeys[i]
		j.Owner = common.NormalizeAddress(j.Owner)
		j.ContractAddress = common.NormalizeAddress(j.ContractAddress)
		if !vessels[j.VesselOrderID] {
			verr.Add(fmt.Sprintf("journeys[%d].vessel_order_id", i), "not a vessel order in this file")
		}
	}

	return verr.OrNil()
}

// clearOrder lists tables in an order that keeps foreign keys satisfied.
var clearOrder = []string{
	"order_matches",
	"insurance_policies",
	"user_insurance_policies",
	"carrier_routes",
	"orders",
	"insurance_templates",
	"refresh_tokens",
	"profiles",
	"smart_contracts",
}

type Seeder struct {
	db     *sql.DB
	logger logging.Logger
}

func New(db *sql.DB, logger logging.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Populate inserts the fixtures. Rows that already exist are left alone,
// except contract addresses which are refreshed.
func (s *Seeder) Populate(ctx context.Context, f *Fixtures) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.populate(ctx, tx, f)
	})
}

// Clear deletes every fixture-managed row. The orphaned mint journal is kept.
func (s *Seeder) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.clear(ctx, tx)
	})
}

// Reset runs Clear and Populate in one transaction.
func (s *Seeder) Reset(ctx context.Context, f *Fixtures) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.clear(ctx, tx); err != nil {
			return err
		}
		return s.populate(ctx, tx, f)
	})
}

// unlinkPolicies breaks the orders <-> insurance_policies cycle before deleting.
const unlinkPolicies = `UPDATE orders SET insurance_policy_id = NULL WHERE insurance_policy_id IS NOT NULL`

func (s *Seeder) clear(ctx context.Context, tx dbx.DBTX) error {
	if _, err := tx.ExecContext(ctx, unlinkPolicies); err != nil {
		return fmt.Errorf("unlink policies: %w", err)
	}
	for _, table := range clearOrder {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		s.logger.Info(ctx, "cleared", "table", table, "rows", n)
	}
	return nil
}

func (s *Seeder) populate(ctx context.Context, tx dbx.DBTX, f *Fixtures) error {
	for _, c := range f.Contracts {
		_, err := tx.ExecContext(ctx, `INSERT INTO smart_contracts (name, address, network, chain_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET address = EXCLUDED.address, network = EXCLUDED.network, chain_id = EXCLUDED.chain_id`,
			c.Name, c.Address, c.Network, c.ChainID)
		if err != nil {
			return fmt.Errorf("contract %s: %w", c.Name, err)
		}
	}

	for _, t := range f.Templates {
		_, err := tx.ExecContext(ctx, `INSERT INTO insurance_templates
			(id, name, description, trigger_condition, threshold, premium, payout, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
			ON CONFLICT DO NOTHING`,
			t.ID, t.Name, t.Description, string(t.TriggerCondition), t.Threshold, t.Premium, t.Payout)
		if err != nil {
			return fmt.Errorf("template %s: %w", t.Name, err)
		}
	}

	for _, p := range f.Profiles {
		nonce, err := common.MakeRandHexString(16)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO profiles (id, wallet_address, display_name, role, nonce)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT DO NOTHING`,
			p.ID, p.WalletAddress, p.DisplayName, string(p.Role), nonce)
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.WalletAddress, err)
		}
	}

	for _, o := range f.Orders {
		_, err := tx.ExecContext(ctx, `INSERT INTO orders
			(id, owner, type, title, origin_port, destination_port, departure_date, arrival_date,
			 weight_tons, capacity_tons, cargo_type, vessel_name, imo_number, price, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'active')
			ON CONFLICT DO NOTHING`,
			o.ID, o.Owner, string(o.Type), o.Title, o.OriginPort, o.DestinationPort, o.DepartureDate, o.ArrivalDate,
			o.WeightTons, o.CapacityTons, o.CargoType, o.VesselName, o.IMONumber, o.Price)
		if err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
	}

	for _, j := range f.Journeys {
		_, err := tx.ExecContext(ctx, `INSERT INTO carrier_routes
			(id, vessel_order_id, owner, origin_port, destination_port, departure_date, arrival_date,
			 available_capacity_tons, price_per_ton, status, token_id, contract_address, tx_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10, $11, $12)
			ON CONFLICT DO NOTHING`,
			j.ID, j.VesselOrderID, j.Owner, j.OriginPort, j.DestinationPort, j.DepartureDate, j.ArrivalDate,
			j.AvailableCapacityTons, j.PricePerTon, j.TokenID, j.ContractAddress, j.TxHash)
		if err != nil {
			return fmt.Errorf("journey %s: %w", j.ID, err)
		}
	}

	s.logger.Info(ctx, "populated",
		"contracts", len(f.Contracts),
		"templates", len(f.Templates),
		"profiles", len(f.Profiles),
		"orders", len(f.Orders),
		"journeys", len(f.Journeys))
	return nil
}
