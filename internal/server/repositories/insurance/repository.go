// Package insurance stores parametric insurance templates, custom user
// policies and the policies issued when a template is applied to an order.
package insurance

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type Repository interface {
	ListTemplates(ctx context.Context, activeOnly bool) ([]*models.InsuranceTemplate, error)
	GetTemplate(ctx context.Context, id string) (*models.InsuranceTemplate, error)

	CreateUserPolicy(ctx context.Context, p *models.UserInsurancePolicy) error
	ListUserPolicies(ctx context.Context, owner string) ([]*models.UserInsurancePolicy, error)

	CreatePolicy(ctx context.Context, p *models.InsurancePolicy) error
	// ExpireOrderPolicies marks the order's active issued policies expired.
	ExpireOrderPolicies(ctx context.Context, orderID string) (int64, error)
	ListPoliciesByHolder(ctx context.Context, holder string) ([]*models.InsurancePolicy, error)
}
