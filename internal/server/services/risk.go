package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shipmarket/internal/server/risk"
	"github.com/google/uuid"
)

// RiskService assesses either a stored order or a free-form route.
type RiskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	assessor    *risk.Assessor
}

func NewRiskService(db *sql.DB, rm repomanager.RepositoryManager, a *risk.Assessor) *RiskService {
	return &RiskService{db: db, repomanager: rm, assessor: a}
}

// AssessRisk uses the order when orderID is set, otherwise route.
func (s *RiskService) AssessRisk(ctx context.Context, orderID string, route risk.Subject) (*risk.Assessment, error) {
	subject := route
	if orderID != "" {
		if uuid.Validate(orderID) != nil {
			return nil, errInvalidOrderID
		}
		o, err := s.repomanager.Orders(s.db).GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		weight, _ := o.WeightTons.Float64()
		subject = risk.Subject{
			OriginPort:      o.OriginPort,
			DestinationPort: o.DestinationPort,
			DepartureDate:   o.DepartureDate,
			ArrivalDate:     o.ArrivalDate,
			CargoType:       o.CargoType,
			WeightTons:      weight,
			VesselName:      o.VesselName,
			Notes:           route.Notes,
		}
	}

	a, err := s.assessor.Assess(ctx, subject)
	if err != nil {
		return nil, validationErr("route", err.Error())
	}
	return a, nil
}
