package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telegram-pix-vip/internal/config"
	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/model"
	"telegram-pix-vip/internal/infra/i18n"
	"telegram-pix-vip/internal/usecase"
)

type stubPayUC struct {
	InitiateFunc func(ctx context.Context, userID, planKey string) (*usecase.InitiateResult, error)
	CheckFunc    func(ctx context.Context, userID, externalID string) error
}

func (s *stubPayUC) Initiate(ctx context.Context, userID, planKey string) (*usecase.InitiateResult, error) {
	return s.InitiateFunc(ctx, userID, planKey)
}

func (s *stubPayUC) Check(ctx context.Context, userID, externalID string) error {
	return s.CheckFunc(ctx, userID, externalID)
}

func newTestFacade(t *testing.T, pay *stubPayUC) *BotFacade {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "pt-BR")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	logger := zerolog.Nop()
	links := config.LinksConfig{VIP: "https://t.me/+vip", Support: "https://t.me/suporte"}
	return NewBotFacade(usecase.NewPlanUseCase(model.DefaultPlanCatalog()), pay, tr, links, &logger)
}

func TestBotFacade_HandleStart(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t, &stubPayUC{})

	t.Run("greets by name and offers every plan", func(t *testing.T) {
		replies := f.HandleStart(ctx, 42, "Maria")
		if len(replies) != 1 {
			t.Fatalf("expected 1 reply, got %d", len(replies))
		}
		if !strings.Contains(replies[0].Text, "Maria") {
			t.Errorf("expected greeting with name, got %q", replies[0].Text)
		}
		if len(replies[0].Rows) != 3 {
			t.Fatalf("expected 3 plan buttons, got %d", len(replies[0].Rows))
		}
		if got := replies[0].Rows[0][0].Data; got != "plan:1mes" {
			t.Errorf("expected first button data plan:1mes, got %q", got)
		}
		if !strings.Contains(replies[0].Rows[0][0].Text, "23,90") {
			t.Errorf("expected Brazilian price format, got %q", replies[0].Rows[0][0].Text)
		}
	})

	t.Run("falls back to a friendly name", func(t *testing.T) {
		replies := f.HandleStart(ctx, 42, "  ")
		if !strings.Contains(replies[0].Text, "Amigo") {
			t.Errorf("expected fallback name, got %q", replies[0].Text)
		}
	})
}

func TestBotFacade_HandleSelectPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("presents code and check action on success", func(t *testing.T) {
		// --- Arrange ---
		var gotUserID string
		pay := &stubPayUC{
			InitiateFunc: func(ctx context.Context, userID, planKey string) (*usecase.InitiateResult, error) {
				gotUserID = userID
				plan, _ := model.DefaultPlanCatalog().Find(planKey)
				return &usecase.InitiateResult{Plan: plan, ExternalID: "abc123", PaymentCode: "000201-payload", Stored: true}, nil
			},
		}
		f := newTestFacade(t, pay)

		// --- Act ---
		replies := f.HandleSelectPlan(ctx, 42, "1mes")

		// --- Assert ---
		if gotUserID != "42" {
			t.Errorf("expected telegram id normalized to string, got %q", gotUserID)
		}
		if len(replies) != 3 {
			t.Fatalf("expected 3 replies, got %d", len(replies))
		}
		if !strings.Contains(replies[0].Text, "23,90") {
			t.Errorf("expected price in first reply, got %q", replies[0].Text)
		}
		if replies[1].Text != "000201-payload" || !replies[1].Code {
			t.Errorf("expected monospace code reply, got %+v", replies[1])
		}
		if got := replies[2].Rows[0][0].Data; got != "check:abc123" {
			t.Errorf("expected check action bound to abc123, got %q", got)
		}
	})

	t.Run("rejects unknown plans", func(t *testing.T) {
		pay := &stubPayUC{
			InitiateFunc: func(ctx context.Context, userID, planKey string) (*usecase.InitiateResult, error) {
				return nil, domain.ErrNotFound
			},
		}
		f := newTestFacade(t, pay)

		replies := f.HandleSelectPlan(ctx, 42, "6meses")
		if len(replies) != 1 || !strings.Contains(replies[0].Text, "não encontrado") {
			t.Errorf("expected plan-not-found reply, got %+v", replies)
		}
	})

	t.Run("reports a transient failure when the gateway is down", func(t *testing.T) {
		pay := &stubPayUC{
			InitiateFunc: func(ctx context.Context, userID, planKey string) (*usecase.InitiateResult, error) {
				return nil, domain.ErrGateway
			},
		}
		f := newTestFacade(t, pay)

		replies := f.HandleSelectPlan(ctx, 42, "1mes")
		if len(replies) != 1 {
			t.Fatalf("expected 1 reply, got %d", len(replies))
		}
		if !strings.Contains(replies[0].Text, "Erro ao gerar o pagamento") {
			t.Errorf("expected failure copy, got %q", replies[0].Text)
		}
		if len(replies[0].Rows) != 0 {
			t.Error("a failed initiation must not offer buttons")
		}
	})
}

func TestBotFacade_HandleCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("grants access with VIP and support links", func(t *testing.T) {
		f := newTestFacade(t, &stubPayUC{
			CheckFunc: func(ctx context.Context, userID, externalID string) error { return nil },
		})

		replies := f.HandleCheck(ctx, 42, "abc123")
		if len(replies) != 1 {
			t.Fatalf("expected 1 reply, got %d", len(replies))
		}
		if !strings.Contains(replies[0].Text, "CONFIRMADO") {
			t.Errorf("expected grant copy, got %q", replies[0].Text)
		}
		if replies[0].Rows[0][0].URL != "https://t.me/+vip" {
			t.Errorf("expected VIP link button, got %+v", replies[0].Rows[0][0])
		}
		if replies[0].Rows[1][0].URL != "https://t.me/suporte" {
			t.Errorf("expected support link button, got %+v", replies[0].Rows[1][0])
		}
	})

	t.Run("re-offers the same check action while unconfirmed", func(t *testing.T) {
		f := newTestFacade(t, &stubPayUC{
			CheckFunc: func(ctx context.Context, userID, externalID string) error {
				return domain.ErrPaymentUnconfirmed
			},
		})

		replies := f.HandleCheck(ctx, 42, "abc123")
		if len(replies) != 1 {
			t.Fatalf("expected 1 reply, got %d", len(replies))
		}
		if got := replies[0].Rows[0][0].Data; got != "check:abc123" {
			t.Errorf("expected retry bound to the same id, got %q", got)
		}
	})

	t.Run("folds unexpected errors into a plain failure message", func(t *testing.T) {
		f := newTestFacade(t, &stubPayUC{
			CheckFunc: func(ctx context.Context, userID, externalID string) error {
				return errors.New("boom")
			},
		})

		replies := f.HandleCheck(ctx, 42, "abc123")
		if strings.Contains(replies[0].Text, "boom") {
			t.Error("raw error text must never reach chat")
		}
	})
}
