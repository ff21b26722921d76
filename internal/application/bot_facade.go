// File: internal/application/bot_facade.go
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-pix-vip/internal/config"
	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/ports/adapter"
	"telegram-pix-vip/internal/infra/i18n"
	"telegram-pix-vip/internal/infra/logging"
	"telegram-pix-vip/internal/infra/metrics"
	"telegram-pix-vip/internal/usecase"
)

// Reply is one outbound chat message. The Telegram adapter only renders;
// all flow decisions happen here.
type Reply struct {
	Text string
	Rows [][]adapter.InlineButton
	Code bool // render as monospace so the PIX payload copies cleanly
}

// Callback data prefixes understood by the bot.
const (
	CallbackPlanPrefix  = "plan:"
	CallbackCheckPrefix = "check:"
)

// BotFacade composes usecases into high-level bot flows. Errors from the
// gateway and the store are folded into user-facing replies; nothing raw
// ever reaches chat.
type BotFacade struct {
	PlanUC usecase.PlanUseCase
	PayUC  usecase.PaymentUseCase

	tr    *i18n.Translator
	links config.LinksConfig
	log   *zerolog.Logger
}

func NewBotFacade(
	planUC usecase.PlanUseCase,
	payUC usecase.PaymentUseCase,
	tr *i18n.Translator,
	links config.LinksConfig,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{PlanUC: planUC, PayUC: payUC, tr: tr, links: links, log: logger}
}

// HandleStart greets the user and offers the plan menu.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, firstName string) []Reply {
	if strings.TrimSpace(firstName) == "" {
		firstName = b.tr.T("fallback_name")
	}

	var rows [][]adapter.InlineButton
	for _, p := range b.PlanUC.List(ctx) {
		rows = append(rows, []adapter.InlineButton{{
			Text: b.tr.T("plan_button", p.Name, formatBRL(p.PriceBRL)),
			Data: CallbackPlanPrefix + p.Key,
		}})
	}
	return []Reply{{Text: b.tr.T("start_greeting", firstName), Rows: rows}}
}

// HandleSelectPlan runs Initiate and presents the payment code plus the
// check action bound to the gateway's intent id.
func (b *BotFacade) HandleSelectPlan(ctx context.Context, tgID int64, planKey string) []Reply {
	res, err := b.PayUC.Initiate(ctx, usecase.UserIDFromTelegram(tgID), planKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []Reply{{Text: b.tr.T("plan_not_found")}}
		}
		logging.With(ctx, b.log).Warn().Err(err).Int64("tg_id", tgID).Str("plan", planKey).Msg("initiate payment failed")
		return []Reply{{Text: b.tr.T("gateway_failure")}}
	}

	return []Reply{
		{Text: b.tr.T("pix_ready", res.Plan.Name, formatBRL(res.Plan.PriceBRL))},
		{Text: res.PaymentCode, Code: true},
		{
			Text: b.tr.T("after_payment"),
			Rows: [][]adapter.InlineButton{
				{{Text: b.tr.T("check_button"), Data: CallbackCheckPrefix + res.ExternalID}},
			},
		},
	}
}

// HandleCheck runs Check. Granted access is idempotent: repeated calls just
// re-send the VIP links.
func (b *BotFacade) HandleCheck(ctx context.Context, tgID int64, externalID string) []Reply {
	err := b.PayUC.Check(ctx, usecase.UserIDFromTelegram(tgID), externalID)
	switch {
	case err == nil:
		metrics.IncVIPGrant()
		return []Reply{b.grantReply()}
	case errors.Is(err, domain.ErrPaymentUnconfirmed):
		return []Reply{{
			Text: b.tr.T("not_confirmed"),
			Rows: [][]adapter.InlineButton{
				{{Text: b.tr.T("retry_button"), Data: CallbackCheckPrefix + externalID}},
			},
		}}
	default:
		logging.With(ctx, b.log).Warn().Err(err).Int64("tg_id", tgID).Str("external_id", externalID).Msg("check payment failed")
		return []Reply{{Text: b.tr.T("check_failure")}}
	}
}

func (b *BotFacade) grantReply() Reply {
	rows := [][]adapter.InlineButton{
		{{Text: b.tr.T("vip_button"), URL: b.links.VIP}},
	}
	if b.links.Support != "" {
		rows = append(rows, []adapter.InlineButton{{Text: b.tr.T("support_button"), URL: b.links.Support}})
	}
	return Reply{Text: b.tr.T("granted"), Rows: rows}
}

// formatBRL renders a price the Brazilian way: comma decimal separator.
func formatBRL(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
