package services

import (
	"context"
	"database/sql"
	"math/big"

	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/server/events"
	"github.com/dmitrijs2005/shipmarket/internal/server/metadata"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// tokenDecimals is the fixed-point scale of premium and payout amounts on
// the insurance contract (a six decimal stablecoin).
const tokenDecimals = 6

// PolicyInput is the custom policy builder form.
type PolicyInput struct {
	Name             string
	TriggerCondition models.TriggerCondition
	Threshold        decimal.Decimal
	Premium          decimal.Decimal
	Payout           decimal.Decimal
	OrderID          string
	Mint             bool
}

func (in *PolicyInput) Validate() error {
	var f form
	f.required("name", in.Name)
	f.check(in.TriggerCondition.Valid(), "trigger_condition", "unknown trigger condition")
	f.nonNegative("premium", in.Premium)
	f.positive("payout", in.Payout)
	f.places("premium", in.Premium, tokenDecimals)
	f.places("payout", in.Payout, tokenDecimals)
	if in.OrderID != "" {
		f.check(uuid.Validate(in.OrderID) == nil, "order_id", "must be a uuid")
	}
	return f.err()
}

// Policies is what a holder sees: custom policies and template-issued ones.
type Policies struct {
	Custom []*models.UserInsurancePolicy
	Issued []*models.InsurancePolicy
}

type InsuranceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mint        *MintWorkflow
}

func NewInsuranceService(db *sql.DB, rm repomanager.RepositoryManager, mint *MintWorkflow) *InsuranceService {
	return &InsuranceService{db: db, repomanager: rm, mint: mint}
}

func (s *InsuranceService) ListTemplates(ctx context.Context) ([]*models.InsuranceTemplate, error) {
	return s.repomanager.Insurance(s.db).ListTemplates(ctx, true)
}

// CreatePolicy stores a custom policy. With Mint set the policy NFT is
// minted first and the row is written only after the token id is known.
func (s *InsuranceService) CreatePolicy(ctx context.Context, owner string, in *PolicyInput) (*models.UserInsurancePolicy, error) {
	policy := &models.UserInsurancePolicy{
		ID:               uuid.NewString(),
		Owner:            common.NormalizeAddress(owner),
		Name:             in.Name,
		TriggerCondition: in.TriggerCondition,
		Threshold:        in.Threshold,
		Premium:          in.Premium,
		Payout:           in.Payout,
	}
	if in.OrderID != "" {
		policy.OrderID = &in.OrderID
	}

	validate := func() error {
		if err := in.Validate(); err != nil {
			return err
		}
		if in.OrderID == "" {
			return nil
		}
		order, err := s.repomanager.Orders(s.db).GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order.Owner != policy.Owner {
			return common.ErrorForbidden
		}
		return nil
	}

	if !in.Mint {
		if err := validate(); err != nil {
			return nil, err
		}
		if err := s.repomanager.Insurance(s.db).CreateUserPolicy(ctx, policy); err != nil {
			return nil, err
		}
		s.mint.Publish(ctx, events.Event{Type: events.PolicyCreated, Key: policy.ID, Actor: policy.Owner})
		return policy, nil
	}

	job := &MintJob{
		Flow:  chain.FlowPolicy,
		Owner: owner,
		Document: &metadata.Document{
			Name: in.Name,
			Attributes: []metadata.Attribute{
				{TraitType: "trigger_condition", Value: string(in.TriggerCondition)},
				{TraitType: "threshold", Value: in.Threshold.String()},
				{TraitType: "premium", Value: in.Premium.String()},
				{TraitType: "payout", Value: in.Payout.String()},
			},
		},
		Validate: validate,
		Args: func(to ethcommon.Address, uri string) ([]any, error) {
			return []any{to, uri, toUnits(in.Premium), toUnits(in.Payout)}, nil
		},
		Persist: func(ctx context.Context, res *MintResult) error {
			policy.TokenID = &res.TokenID
			policy.ContractAddress = &res.ContractAddress
			policy.TxHash = &res.TxHash
			return s.repomanager.Insurance(s.db).CreateUserPolicy(ctx, policy)
		},
		Event:   events.Event{Type: events.PolicyCreated, Key: policy.ID},
		Payload: policy,
	}

	if _, err := s.mint.Run(ctx, job); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *InsuranceService) ListPolicies(ctx context.Context, owner string) (*Policies, error) {
	holder := common.NormalizeAddress(owner)
	repo := s.repomanager.Insurance(s.db)

	custom, err := repo.ListUserPolicies(ctx, holder)
	if err != nil {
		return nil, err
	}
	issued, err := repo.ListPoliciesByHolder(ctx, holder)
	if err != nil {
		return nil, err
	}
	return &Policies{Custom: custom, Issued: issued}, nil
}

func toUnits(d decimal.Decimal) *big.Int {
	return d.Shift(tokenDecimals).BigInt()
}
