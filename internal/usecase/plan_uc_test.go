//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/model"
	"telegram-pix-vip/internal/usecase"
)

func TestPlanUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewPlanUseCase(model.DefaultPlanCatalog())

	t.Run("should list plans in menu order", func(t *testing.T) {
		plans := uc.List(ctx)
		if len(plans) != 3 {
			t.Fatalf("expected 3 plans, got %d", len(plans))
		}
		wantKeys := []string{"1mes", "3meses", "12meses"}
		for i, k := range wantKeys {
			if plans[i].Key != k {
				t.Errorf("position %d: expected %s, got %s", i, k, plans[i].Key)
			}
		}
	})

	t.Run("should resolve known keys with catalog prices", func(t *testing.T) {
		want := map[string]float64{"1mes": 23.90, "3meses": 44.70, "12meses": 178.00}
		for key, price := range want {
			p, err := uc.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get(%s): %v", key, err)
			}
			if p.PriceBRL != price {
				t.Errorf("plan %s: expected price %v, got %v", key, price, p.PriceBRL)
			}
		}
	})

	t.Run("should return not found for unknown keys", func(t *testing.T) {
		_, err := uc.Get(ctx, "vitalicio")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
