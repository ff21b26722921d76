package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-pix-vip/internal/application"
	"telegram-pix-vip/internal/config"
	"telegram-pix-vip/internal/domain/ports/adapter"
	"telegram-pix-vip/internal/infra/i18n"
	"telegram-pix-vip/internal/infra/logging"
	"telegram-pix-vip/internal/infra/metrics"
	red "telegram-pix-vip/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter polls updates with tgbotapi and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	tr          *i18n.Translator
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	facade *application.BotFacade,
	tr *i18n.Translator,
	rateLimiter *red.RateLimiter,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if tr == nil {
		return nil, errors.New("translator is nil")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		tr:            tr,
		rateLimiter:   rateLimiter,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Warn().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage implements the adapter port.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(
	ctx context.Context,
	telegramID int64,
	text string,
	rows [][]adapter.InlineButton,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kb := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var b tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				b = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				b = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				b = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kb = append(kb, b)
		}
		kbRows = append(kbRows, kb)
	}

	msg := tgbotapi.NewMessage(telegramID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

// sendReplies renders facade replies in order. A Code reply is sent as a
// monospace block so the PIX payload can be copied with one tap.
func (r *RealTelegramBotAdapter) sendReplies(ctx context.Context, tgID int64, replies []application.Reply) error {
	for _, rep := range replies {
		var err error
		switch {
		case rep.Code:
			msg := tgbotapi.NewMessage(tgID, "`"+rep.Text+"`")
			msg.ParseMode = tgbotapi.ModeMarkdown
			_, err = r.bot.Send(msg)
		case len(rep.Rows) > 0:
			err = r.SendButtons(ctx, tgID, rep.Text, rep.Rows)
		default:
			err = r.SendMessage(ctx, tgID, rep.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *RealTelegramBotAdapter) allow(ctx context.Context, tgID int64, command string, limit int) bool {
	if r.rateLimiter == nil {
		return true
	}
	allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, command), limit, time.Minute)
	if err != nil {
		// Redis trouble must not block paying users.
		r.log.Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	if !allowed {
		metrics.IncRateLimitTriggered()
	}
	return allowed
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	ctx = logging.WithTraceID(ctx, uuid.NewString())

	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	if update.Message == nil {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}
	ctx = logging.WithTgID(ctx, tgUser.ID)

	fields := strings.Fields(update.Message.Text)
	command := "message"
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		command = fields[0]
	}
	metrics.IncTelegramCommand(command)

	if !r.allow(ctx, tgUser.ID, command, 20) {
		return r.SendMessage(ctx, tgUser.ID, r.tr.T("rate_limited"))
	}

	// /start and any stray text both land on the plan menu, which keeps
	// lost users in the funnel.
	return r.sendReplies(ctx, tgUser.ID, r.facade.HandleStart(ctx, tgUser.ID, tgUser.FirstName))
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop telegram spinner when we return
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	var chatID int64
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	} else {
		chatID = query.From.ID
	}
	if chatID == 0 {
		return nil
	}

	ctx = logging.WithTgID(ctx, chatID)
	data := strings.TrimSpace(query.Data)
	metrics.IncTelegramCommand("callback")

	if !r.allow(ctx, chatID, "cb", 30) {
		return r.SendMessage(ctx, chatID, r.tr.T("rate_limited"))
	}

	switch {
	case strings.HasPrefix(data, application.CallbackPlanPrefix):
		planKey := strings.TrimPrefix(data, application.CallbackPlanPrefix)
		// Gateway round-trips take a moment; tell the user something happened.
		_ = r.SendMessage(ctx, chatID, r.tr.T("generating_pix"))
		return r.sendReplies(ctx, chatID, r.facade.HandleSelectPlan(ctx, chatID, planKey))

	case strings.HasPrefix(data, application.CallbackCheckPrefix):
		externalID := strings.TrimPrefix(data, application.CallbackCheckPrefix)
		ctx = logging.WithExternalID(ctx, externalID)
		return r.sendReplies(ctx, chatID, r.facade.HandleCheck(ctx, chatID, externalID))
	}
	return errors.New("unknown callback data")
}
