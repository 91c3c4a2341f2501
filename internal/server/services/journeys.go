package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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

// JourneyInput is the journey logging form of a registered vessel.
type JourneyInput struct {
	VesselOrderID         string
	OriginPort            string
	DestinationPort       string
	DepartureDate         time.Time
	ArrivalDate           time.Time
	AvailableCapacityTons decimal.Decimal
	PricePerTon           decimal.Decimal
}

func (in *JourneyInput) Validate() error {
	var f form
	f.check(uuid.Validate(in.VesselOrderID) == nil, "vessel_order_id", "must be a uuid")
	f.required("origin_port", in.OriginPort)
	f.required("destination_port", in.DestinationPort)
	f.schedule(in.DepartureDate, in.ArrivalDate)
	f.positive("available_capacity_tons", in.AvailableCapacityTons)
	f.nonNegative("price_per_ton", in.PricePerTon)
	return f.err()
}

type JourneyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mint        *MintWorkflow
}

func NewJourneyService(db *sql.DB, rm repomanager.RepositoryManager, mint *MintWorkflow) *JourneyService {
	return &JourneyService{db: db, repomanager: rm, mint: mint}
}

// LogJourney mints a journey NFT referencing the caller's minted vessel and
// stores the carrier route.
func (s *JourneyService) LogJourney(ctx context.Context, owner string, in *JourneyInput) (*models.CarrierRoute, error) {
	route := &models.CarrierRoute{
		ID:                    uuid.NewString(),
		VesselOrderID:         in.VesselOrderID,
		Owner:                 common.NormalizeAddress(owner),
		OriginPort:            in.OriginPort,
		DestinationPort:       in.DestinationPort,
		DepartureDate:         in.DepartureDate,
		ArrivalDate:           in.ArrivalDate,
		AvailableCapacityTons: in.AvailableCapacityTons,
		PricePerTon:           in.PricePerTon,
		Status:                models.OrderStatusActive,
	}

	var vessel *models.Order

	job := &MintJob{
		Flow:  chain.FlowJourney,
		Owner: owner,
		Document: &metadata.Document{
			Name: fmt.Sprintf("%s → %s", in.OriginPort, in.DestinationPort),
			Attributes: []metadata.Attribute{
				{TraitType: "vessel_order_id", Value: in.VesselOrderID},
				{TraitType: "departure_date", Value: in.DepartureDate.Format(time.DateOnly)},
				{TraitType: "arrival_date", Value: in.ArrivalDate.Format(time.DateOnly)},
				{TraitType: "available_capacity_tons", Value: in.AvailableCapacityTons.String()},
			},
		},
		Validate: func() error {
			if err := in.Validate(); err != nil {
				return err
			}
			var err error
			vessel, err = s.repomanager.Orders(s.db).GetByID(ctx, in.VesselOrderID)
			if err != nil {
				return err
			}
			if vessel.Type != models.OrderTypeVessel {
				return validationErr("vessel_order_id", "is not a vessel order")
			}
			if vessel.Owner != route.Owner {
				return common.ErrorForbidden
			}
			return nil
		},
		Args: func(to ethcommon.Address, uri string) ([]any, error) {
			vesselTokenID, err := tokenIDArg("vessel_order_id", vessel.TokenID)
			if err != nil {
				return nil, err
			}
			return []any{to, vesselTokenID, uri}, nil
		},
		Persist: func(ctx context.Context, res *MintResult) error {
			route.TokenID = res.TokenID
			route.ContractAddress = res.ContractAddress
			route.TxHash = res.TxHash
			return s.repomanager.CarrierRoutes(s.db).Create(ctx, route)
		},
		Event:   events.Event{Type: events.JourneyLogged, Key: in.VesselOrderID},
		Payload: route,
	}

	if _, err := s.mint.Run(ctx, job); err != nil {
		return nil, err
	}
	return route, nil
}

// ListJourneys returns the routes of one vessel order, or all routes owned
// by owner when vesselOrderID is empty.
func (s *JourneyService) ListJourneys(ctx context.Context, owner, vesselOrderID string) ([]*models.CarrierRoute, error) {
	repo := s.repomanager.CarrierRoutes(s.db)
	if vesselOrderID == "" {
		return repo.ListByOwner(ctx, common.NormalizeAddress(owner))
	}
	if uuid.Validate(vesselOrderID) != nil {
		return nil, common.ErrorNotFound
	}
	return repo.ListByVesselOrder(ctx, vesselOrderID)
}
