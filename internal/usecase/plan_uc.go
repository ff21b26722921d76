// File: internal/usecase/plan_uc.go
package usecase

import (
	"context"

	"telegram-pix-vip/internal/domain/model"
)

var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase exposes the immutable plan catalog to the chat layer.
type PlanUseCase interface {
	List(ctx context.Context) []model.Plan
	Get(ctx context.Context, key string) (model.Plan, error)
}

type planUC struct {
	catalog *model.PlanCatalog
}

func NewPlanUseCase(catalog *model.PlanCatalog) *planUC {
	return &planUC{catalog: catalog}
}

func (u *planUC) List(ctx context.Context) []model.Plan { return u.catalog.List() }

func (u *planUC) Get(ctx context.Context, key string) (model.Plan, error) {
	return u.catalog.Find(key)
}
