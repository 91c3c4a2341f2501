package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/events"
	"github.com/dmitrijs2005/shipmarket/internal/server/metadata"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CargoOrderInput is the cargo listing form.
type CargoOrderInput struct {
	Title               string
	OriginPort          string
	DestinationPort     string
	DepartureDate       time.Time
	ArrivalDate         time.Time
	WeightTons          decimal.Decimal
	CargoType           string
	Price               decimal.Decimal
	InsuranceTemplateID string
}

func (in *CargoOrderInput) Validate() error {
	var f form
	f.required("title", in.Title)
	f.required("origin_port", in.OriginPort)
	f.required("destination_port", in.DestinationPort)
	f.schedule(in.DepartureDate, in.ArrivalDate)
	f.positive("weight_tons", in.WeightTons)
	f.required("cargo_type", in.CargoType)
	f.nonNegative("price", in.Price)
	if in.InsuranceTemplateID != "" {
		f.check(uuid.Validate(in.InsuranceTemplateID) == nil, "insurance_template_id", "must be a uuid")
	}
	return f.err()
}

// VesselInput is the vessel registration form.
type VesselInput struct {
	Title           string
	VesselName      string
	IMONumber       string
	OriginPort      string
	DestinationPort string
	DepartureDate   time.Time
	ArrivalDate     time.Time
	CapacityTons    decimal.Decimal
	Price           decimal.Decimal
}

func (in *VesselInput) Validate() error {
	var f form
	f.required("vessel_name", in.VesselName)
	f.check(ValidIMO(in.IMONumber), "imo_number", "must be a valid seven digit IMO number")
	f.required("origin_port", in.OriginPort)
	f.required("destination_port", in.DestinationPort)
	f.schedule(in.DepartureDate, in.ArrivalDate)
	f.positive("capacity_tons", in.CapacityTons)
	f.nonNegative("price", in.Price)
	return f.err()
}

type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mint        *MintWorkflow
}

func NewOrderService(db *sql.DB, rm repomanager.RepositoryManager, mint *MintWorkflow) *OrderService {
	return &OrderService{db: db, repomanager: rm, mint: mint}
}

// CreateCargoOrder mints the cargo NFT to owner and stores the listing.
// When a template is given, the policy is issued in the same transaction.
func (s *OrderService) CreateCargoOrder(ctx context.Context, owner string, in *CargoOrderInput) (*models.Order, error) {
	order := &models.Order{
		ID:              uuid.NewString(),
		Owner:           common.NormalizeAddress(owner),
		Type:            models.OrderTypeCargo,
		Title:           in.Title,
		OriginPort:      in.OriginPort,
		DestinationPort: in.DestinationPort,
		DepartureDate:   in.DepartureDate,
		ArrivalDate:     in.ArrivalDate,
		WeightTons:      in.WeightTons,
		CargoType:       in.CargoType,
		Price:           in.Price,
		Status:          models.OrderStatusActive,
	}

	job := &MintJob{
		Flow:  chain.FlowCargo,
		Owner: owner,
		Document: &metadata.Document{
			Name:        in.Title,
			Description: fmt.Sprintf("%s cargo from %s to %s", in.CargoType, in.OriginPort, in.DestinationPort),
			Attributes: []metadata.Attribute{
				{TraitType: "cargo_type", Value: in.CargoType},
				{TraitType: "weight_tons", Value: in.WeightTons.String()},
				{TraitType: "origin_port", Value: in.OriginPort},
				{TraitType: "destination_port", Value: in.DestinationPort},
				{TraitType: "departure_date", Value: in.DepartureDate.Format(time.DateOnly)},
			},
		},
		Validate: func() error {
			if err := in.Validate(); err != nil {
				return err
			}
			return s.checkTemplate(ctx, in.InsuranceTemplateID)
		},
		Args: func(to ethcommon.Address, uri string) ([]any, error) {
			return []any{to, uri}, nil
		},
		Persist: func(ctx context.Context, res *MintResult) error {
			applyMint(order, res)
			return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				if err := s.repomanager.Orders(tx).Create(ctx, order); err != nil {
					return err
				}
				if in.InsuranceTemplateID == "" {
					return nil
				}
				policy, err := s.issuePolicy(ctx, tx, order.ID, in.InsuranceTemplateID, order.Owner)
				if err != nil {
					return err
				}
				order.InsuranceTemplateID = &in.InsuranceTemplateID
				order.InsurancePolicyID = &policy.ID
				return nil
			})
		},
		Event:   events.Event{Type: events.OrderCreated, Key: order.ID},
		Payload: order,
	}

	if _, err := s.mint.Run(ctx, job); err != nil {
		return nil, err
	}
	return order, nil
}

// RegisterVessel mints the vessel NFT to owner and stores the vessel listing.
func (s *OrderService) RegisterVessel(ctx context.Context, owner string, in *VesselInput) (*models.Order, error) {
	title := in.Title
	if title == "" {
		title = in.VesselName
	}
	imo := NormalizeIMO(in.IMONumber)

	order := &models.Order{
		ID:              uuid.NewString(),
		Owner:           common.NormalizeAddress(owner),
		Type:            models.OrderTypeVessel,
		Title:           title,
		OriginPort:      in.OriginPort,
		DestinationPort: in.DestinationPort,
		DepartureDate:   in.DepartureDate,
		ArrivalDate:     in.ArrivalDate,
		CapacityTons:    in.CapacityTons,
		VesselName:      in.VesselName,
		IMONumber:       imo,
		Price:           in.Price,
		Status:          models.OrderStatusActive,
	}

	job := &MintJob{
		Flow:  chain.FlowVessel,
		Owner: owner,
		Document: &metadata.Document{
			Name:        in.VesselName,
			Description: "IMO " + imo,
			Attributes: []metadata.Attribute{
				{TraitType: "imo_number", Value: imo},
				{TraitType: "capacity_tons", Value: in.CapacityTons.String()},
			},
		},
		Validate: in.Validate,
		Args: func(to ethcommon.Address, uri string) ([]any, error) {
			return []any{to, uri, imo}, nil
		},
		Persist: func(ctx context.Context, res *MintResult) error {
			applyMint(order, res)
			return s.repomanager.Orders(s.db).Create(ctx, order)
		},
		Event:   events.Event{Type: events.VesselRegistered, Key: order.ID},
		Payload: order,
	}

	if _, err := s.mint.Run(ctx, job); err != nil {
		return nil, err
	}
	return order, nil
}

func applyMint(o *models.Order, res *MintResult) {
	o.TokenID = &res.TokenID
	o.ContractAddress = &res.ContractAddress
	o.TxHash = &res.TxHash
	o.MetadataURI = res.MetadataURI
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Orders(s.db).GetByID(ctx, id)
}

// ListMarketplace returns the public listing split by order type. An empty
// status lists active orders.
func (s *OrderService) ListMarketplace(ctx context.Context, status models.OrderStatus) (*models.Marketplace, error) {
	if status == "" {
		status = models.OrderStatusActive
	}
	if !status.Valid() {
		return nil, validationErr("status", "unknown status")
	}

	list, err := s.repomanager.Orders(s.db).List(ctx, orders.Filter{Status: status})
	if err != nil {
		return nil, err
	}
	return models.PartitionOrders(list), nil
}

// UpdateStatus changes the lifecycle status of an order owned by caller.
func (s *OrderService) UpdateStatus(ctx context.Context, caller, orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return validationErr("status", "unknown status")
	}

	repo := s.repomanager.Orders(s.db)
	order, err := s.ownedOrder(ctx, repo, caller, orderID)
	if err != nil {
		return err
	}
	if err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return err
	}

	s.mint.Publish(ctx, events.Event{
		Type:       events.OrderUpdated,
		Key:        order.ID,
		Actor:      common.NormalizeAddress(caller),
		Attributes: map[string]string{"status": string(status)},
	})
	return nil
}

// ApplyInsuranceTemplate issues a policy from an active template and links
// it to exactly one order owned by caller, in a single transaction. Policies
// issued earlier for the order are expired.
func (s *OrderService) ApplyInsuranceTemplate(ctx context.Context, caller, orderID, templateID string) (*models.InsurancePolicy, error) {
	var f form
	f.check(uuid.Validate(orderID) == nil, "order_id", "must be a uuid")
	f.check(uuid.Validate(templateID) == nil, "template_id", "must be a uuid")
	if err := f.err(); err != nil {
		return nil, err
	}

	if _, err := s.ownedOrder(ctx, s.repomanager.Orders(s.db), caller, orderID); err != nil {
		return nil, err
	}
	if err := s.checkTemplate(ctx, templateID); err != nil {
		return nil, err
	}

	var policy *models.InsurancePolicy
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Insurance(tx).ExpireOrderPolicies(ctx, orderID); err != nil {
			return err
		}
		var err error
		policy, err = s.issuePolicy(ctx, tx, orderID, templateID, common.NormalizeAddress(caller))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mint.Publish(ctx, events.Event{
		Type:       events.InsuranceApplied,
		Key:        orderID,
		Actor:      common.NormalizeAddress(caller),
		Attributes: map[string]string{"template_id": templateID, "policy_id": policy.ID},
	})
	return policy, nil
}

func (s *OrderService) issuePolicy(ctx context.Context, tx dbx.DBTX, orderID, templateID, holder string) (*models.InsurancePolicy, error) {
	policy := &models.InsurancePolicy{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		TemplateID: templateID,
		Holder:     holder,
		Status:     models.PolicyStatusActive,
	}
	if err := s.repomanager.Insurance(tx).CreatePolicy(ctx, policy); err != nil {
		return nil, err
	}
	if err := s.repomanager.Orders(tx).UpdateInsurance(ctx, orderID, templateID, policy.ID); err != nil {
		return nil, err
	}
	return policy, nil
}

// checkTemplate accepts an empty id; otherwise the template must exist and be active.
func (s *OrderService) checkTemplate(ctx context.Context, templateID string) error {
	if templateID == "" {
		return nil
	}
	t, err := s.repomanager.Insurance(s.db).GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return validationErr("insurance_template_id", "unknown template")
		}
		return err
	}
	if !t.Active {
		return validationErr("insurance_template_id", "template is not active")
	}
	return nil
}

// ownedOrder loads an order and checks caller owns it.
func (s *OrderService) ownedOrder(ctx context.Context, repo orders.Repository, caller, orderID string) (*models.Order, error) {
	if uuid.Validate(orderID) != nil {
		return nil, common.ErrorNotFound
	}
	order, err := repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Owner != common.NormalizeAddress(caller) {
		return nil, common.ErrorForbidden
	}
	return order, nil
}

// tokenIDArg parses a decimal token id for use as a uint256 call argument.
func tokenIDArg(field string, id *string) (*big.Int, error) {
	if id == nil || *id == "" {
		return nil, validationErr(field, "has not been minted")
	}
	n, ok := new(big.Int).SetString(*id, 10)
	if !ok || n.Sign() < 0 {
		return nil, validationErr(field, "malformed token id")
	}
	return n, nil
}
