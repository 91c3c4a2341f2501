package grpc

import (
	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toOrder(o *models.Order) *api.Order {
	return &api.Order{
		ID:                  o.ID,
		Owner:               o.Owner,
		Type:                string(o.Type),
		Title:               o.Title,
		OriginPort:          o.OriginPort,
		DestinationPort:     o.DestinationPort,
		DepartureDate:       o.DepartureDate,
		ArrivalDate:         o.ArrivalDate,
		WeightTons:          o.WeightTons,
		CapacityTons:        o.CapacityTons,
		CargoType:           o.CargoType,
		VesselName:          o.VesselName,
		IMONumber:           o.IMONumber,
		Price:               o.Price,
		Status:              string(o.Status),
		InsuranceTemplateID: deref(o.InsuranceTemplateID),
		InsurancePolicyID:   deref(o.InsurancePolicyID),
		TokenID:             deref(o.TokenID),
		ContractAddress:     deref(o.ContractAddress),
		TxHash:              deref(o.TxHash),
		MetadataURI:         o.MetadataURI,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func toOrders(list []*models.Order) []*api.Order {
	out := make([]*api.Order, 0, len(list))
	for _, o := range list {
		out = append(out, toOrder(o))
	}
	return out
}

func toJourney(r *models.CarrierRoute) *api.Journey {
	return &api.Journey{
		ID:                    r.ID,
		VesselOrderID:         r.VesselOrderID,
		Owner:                 r.Owner,
		OriginPort:            r.OriginPort,
		DestinationPort:       r.DestinationPort,
		DepartureDate:         r.DepartureDate,
		ArrivalDate:           r.ArrivalDate,
		AvailableCapacityTons: r.AvailableCapacityTons,
		PricePerTon:           r.PricePerTon,
		Status:                string(r.Status),
		TokenID:               r.TokenID,
		ContractAddress:       r.ContractAddress,
		TxHash:                r.TxHash,
		CreatedAt:             r.CreatedAt,
	}
}

func toJourneys(list []*models.CarrierRoute) []*api.Journey {
	out := make([]*api.Journey, 0, len(list))
	for _, r := range list {
		out = append(out, toJourney(r))
	}
	return out
}

func toPolicy(p *models.InsurancePolicy) *api.InsurancePolicy {
	return &api.InsurancePolicy{
		ID:         p.ID,
		OrderID:    p.OrderID,
		TemplateID: p.TemplateID,
		Holder:     p.Holder,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
	}
}

func toUserPolicy(p *models.UserInsurancePolicy) *api.UserPolicy {
	return &api.UserPolicy{
		ID:               p.ID,
		Owner:            p.Owner,
		Name:             p.Name,
		TriggerCondition: string(p.TriggerCondition),
		Threshold:        p.Threshold,
		Premium:          p.Premium,
		Payout:           p.Payout,
		OrderID:          deref(p.OrderID),
		TokenID:          deref(p.TokenID),
		ContractAddress:  deref(p.ContractAddress),
		TxHash:           deref(p.TxHash),
		CreatedAt:        p.CreatedAt,
	}
}

func toPolicies(custom []*models.UserInsurancePolicy, issued []*models.InsurancePolicy) ([]*api.UserPolicy, []*api.InsurancePolicy) {
	c := make([]*api.UserPolicy, 0, len(custom))
	for _, p := range custom {
		c = append(c, toUserPolicy(p))
	}
	i := make([]*api.InsurancePolicy, 0, len(issued))
	for _, p := range issued {
		i = append(i, toPolicy(p))
	}
	return c, i
}

func toTemplate(t *models.InsuranceTemplate) *api.InsuranceTemplate {
	return &api.InsuranceTemplate{
		ID:               t.ID,
		Name:             t.Name,
		Description:      t.Description,
		TriggerCondition: string(t.TriggerCondition),
		Threshold:        t.Threshold,
		Premium:          t.Premium,
		Payout:           t.Payout,
	}
}

func toMatch(m *models.OrderMatch) *api.Match {
	return &api.Match{
		ID:            m.ID,
		CargoOrderID:  m.CargoOrderID,
		VesselOrderID: m.VesselOrderID,
		AgreedPrice:   m.AgreedPrice,
		ProposedBy:    m.ProposedBy,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

func toMatches(list []*models.OrderMatch) []*api.Match {
	out := make([]*api.Match, 0, len(list))
	for _, m := range list {
		out = append(out, toMatch(m))
	}
	return out
}
