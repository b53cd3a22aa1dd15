package fax

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the fax provider's REST API.
type Client interface {
	Send(ctx context.Context, req ProviderSendRequest) (*ProviderSendResult, error)
}

// ProviderSendRequest is the provider's outbound-send body.
type ProviderSendRequest struct {
	ToNumber   string  `json:"to_number"`
	FromNumber string  `json:"from_number"`
	StorageKey *string `json:"storage_key,omitempty"`
	Text       *string `json:"text,omitempty"`
}

// ProviderSendResult is the provider's acceptance response.
type ProviderSendResult struct {
	FaxID  string `json:"fax_id"`
	Status string `json:"status"`
}

type httpClient struct {
	client *resty.Client
}

// NewClient builds the provider client. API-key auth, per-call timeout,
// bounded retries on transport errors.
func NewClient(baseURL, apiKey string) Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", apiKey)

	return &httpClient{client: client}
}

func (c *httpClient) Send(ctx context.Context, req ProviderSendRequest) (*ProviderSendResult, error) {
	var result ProviderSendResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/faxes")
	if err != nil {
		return nil, fmt.Errorf("posting fax: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fax provider returned status %d", resp.StatusCode())
	}
	return &result, nil
}
