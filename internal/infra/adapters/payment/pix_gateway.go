// File: internal/infra/adapters/payment/pix_gateway.go
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/ports/adapter"
	"telegram-pix-vip/internal/infra/metrics"
)

var _ adapter.PixGateway = (*PixGateway)(nil)

// PixGateway implements adapter.PixGateway against the provider's HTTP API.
// Both operations are plain GETs authenticated by a static key passed as a
// query parameter. The provider is untrusted: every failure mode degrades to
// a typed result so callers never crash on a bad or slow upstream.
type PixGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zerolog.Logger
}

func NewPixGateway(baseURL, apiKey string, logger *zerolog.Logger) (*PixGateway, error) {
	if baseURL == "" {
		return nil, errors.New("gateway base url empty")
	}
	if apiKey == "" {
		return nil, errors.New("gateway api key empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}
	return &PixGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     logger,
	}, nil
}

func (g *PixGateway) Name() string { return "pix" }

// CreateIntent calls GET /api/createPix and returns the normalized handle.
func (g *PixGateway) CreateIntent(ctx context.Context, amount float64, userID, taxpayerID string) (adapter.IntentHandle, error) {
	start := time.Now()
	h, err := g.createIntent(ctx, amount, userID, taxpayerID)
	metrics.ObserveGatewayCall("create", int(time.Since(start).Milliseconds()), err == nil)
	return h, err
}

func (g *PixGateway) createIntent(ctx context.Context, amount float64, userID, taxpayerID string) (adapter.IntentHandle, error) {
	params := url.Values{}
	params.Set("apiKey", g.apiKey)
	params.Set("value", strconv.FormatFloat(amount, 'f', 2, 64))
	params.Set("user_id", userID)
	params.Set("cpf", taxpayerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/createPix?"+params.Encode(), nil)
	if err != nil {
		return adapter.IntentHandle{}, fmt.Errorf("%w: build request: %v", domain.ErrGateway, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return adapter.IntentHandle{}, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Data    struct {
			ID        string `json:"id"`
			CopiaCola string `json:"copiaCola"`
			PixCode   string `json:"pix_code"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return adapter.IntentHandle{}, fmt.Errorf("%w: decode response: %v", domain.ErrGateway, err)
	}
	if out.Error != "" {
		return adapter.IntentHandle{}, fmt.Errorf("%w: %s", domain.ErrGateway, out.Error)
	}
	if !out.Success || out.Data.ID == "" {
		return adapter.IntentHandle{}, fmt.Errorf("%w: malformed response", domain.ErrGateway)
	}

	// Older deployments name the payload field pix_code instead of copiaCola.
	code := out.Data.CopiaCola
	if code == "" {
		code = out.Data.PixCode
	}
	if code == "" {
		return adapter.IntentHandle{}, fmt.Errorf("%w: malformed response", domain.ErrGateway)
	}
	return adapter.IntentHandle{ExternalID: out.Data.ID, PaymentCode: code}, nil
}

// GetStatus calls GET /api/status/{id}. It never returns an error: transport
// or decode trouble degrades to IntentStatusError, which callers must read as
// "not confirmed, try later".
func (g *PixGateway) GetStatus(ctx context.Context, externalID string) adapter.IntentStatus {
	start := time.Now()
	st := g.getStatus(ctx, externalID)
	metrics.ObserveGatewayCall("status", int(time.Since(start).Milliseconds()), st.Status != adapter.IntentStatusError)
	return st
}

func (g *PixGateway) getStatus(ctx context.Context, externalID string) adapter.IntentStatus {
	endpoint := fmt.Sprintf("%s/api/status/%s?apiKey=%s", g.baseURL, url.PathEscape(externalID), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		g.log.Error().Err(err).Str("external_id", externalID).Msg("pix status: build request")
		return adapter.IntentStatus{Status: adapter.IntentStatusError}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn().Err(err).Str("external_id", externalID).Msg("pix status: transport failure")
		return adapter.IntentStatus{Status: adapter.IntentStatusError}
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		g.log.Warn().Err(err).Str("external_id", externalID).Msg("pix status: decode failure")
		return adapter.IntentStatus{Status: adapter.IntentStatusError}
	}
	if out.Status == "" {
		return adapter.IntentStatus{Status: adapter.IntentStatusError}
	}
	return adapter.IntentStatus{Status: out.Status}
}
