package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"staybook/internal/pkg/config"
	"staybook/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

var (
	// ErrGatewayUnavailable marks transient processor failures after the
	// bounded retry budget is spent.
	ErrGatewayUnavailable = errs.New("payment gateway unavailable")
	// ErrGatewayRejected marks terminal 4xx responses; retrying cannot help.
	ErrGatewayRejected = errs.New("payment gateway rejected the request")
)

type Intent struct {
	Reference    string
	ClientSecret string
}

// Client talks to the payment processor's REST API. Every call carries a
// per-attempt timeout and a bounded exponential backoff; the processor is the
// only outbound dependency allowed to block.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries uint64
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type createIntentRequest struct {
	Amount   string            `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type refundResponse struct {
	ID string `json:"id"`
}

func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (Intent, error) {
	body := createIntentRequest{
		Amount:   amount.StringFixed(2),
		Currency: currency,
		Metadata: metadata,
	}

	var resp intentResponse
	if err := c.post(ctx, "/v1/payment_intents", body, &resp); err != nil {
		return Intent{}, err
	}
	if resp.ID == "" {
		return Intent{}, errs.Mark(errs.New("gateway returned intent without id"), ErrGatewayRejected)
	}
	return Intent{Reference: resp.ID, ClientSecret: resp.ClientSecret}, nil
}

func (c *Client) Refund(ctx context.Context, reference string) (string, error) {
	body := map[string]string{"payment_intent": reference}

	var resp refundResponse
	if err := c.post(ctx, "/v1/refunds", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errs.Mark(errs.New("gateway returned refund without id"), ErrGatewayRejected)
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return errs.Wrap(err, "failed to encode gateway request")
	}

	operation := func() error {
		return c.doOnce(ctx, path, payload, respBody)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		if errs.Is(err, ErrGatewayRejected) {
			return err
		}
		return errs.Mark(err, ErrGatewayUnavailable)
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, path string, payload []byte, respBody any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(errs.Wrap(err, "failed to build gateway request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errs.Wrap(err, "failed to read gateway response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.Unmarshal(raw, respBody); err != nil {
			return backoff.Permanent(errs.Wrap(err, "failed to decode gateway response"))
		}
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Client errors never heal on retry.
		return backoff.Permanent(errs.Mark(
			errs.New(fmt.Sprintf("gateway responded %d: %s", resp.StatusCode, raw)),
			ErrGatewayRejected,
		))
	default:
		return errs.New(fmt.Sprintf("gateway responded %d", resp.StatusCode))
	}
}
