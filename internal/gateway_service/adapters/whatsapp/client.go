package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
)

// Client talks to the WhatsApp Business Cloud API (Graph API).
type Client struct {
	logger        *slog.Logger
	httpClient    *http.Client
	baseURL       string
	apiVersion    string
	phoneNumberID string
	accessToken   string
}

// NewClient creates a Cloud API client. baseURL is normally
// https://graph.facebook.com; tests point it at a local server. A nil
// httpClient gets a default with a 10s timeout; the upstream API has no
// documented bound, and an unbounded hang is an availability bug.
func NewClient(logger *slog.Logger, baseURL, apiVersion, phoneNumberID, accessToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		logger:        logger.With("adapter", "whatsapp"),
		httpClient:    httpClient,
		baseURL:       baseURL,
		apiVersion:    apiVersion,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}
}

type sendMessageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// sendMessageResponse captures the only field the gateway reads from a
// successful send; the full body is returned raw to the caller.
type sendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText posts a text message to the configured phone number's messages
// endpoint. Any non-2xx answer or transport failure comes back as a
// *domain.UpstreamError carrying the provider's status and body.
func (c *Client) SendText(ctx context.Context, to, body string) (*SendResult, error) {
	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)

	reqBody := sendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal send request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("create send request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	c.logger.DebugContext(ctx, "Sending message to Cloud API", "to", to)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.UpstreamError{StatusCode: 0, Body: err.Error()}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{
			StatusCode: httpResp.StatusCode,
			Body:       fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "Cloud API send failed",
			"status_code", httpResp.StatusCode, "body", string(respBody), "to", to)
		return nil, &domain.UpstreamError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var parsed sendMessageResponse
	messageID := ""
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		// Still a success from the HTTP side; the caller just gets no id.
		c.logger.WarnContext(ctx, "Sent message but could not parse response body",
			"status_code", httpResp.StatusCode, "error", err)
	} else if len(parsed.Messages) > 0 {
		messageID = parsed.Messages[0].ID
	}

	c.logger.InfoContext(ctx, "Message sent via Cloud API",
		"status_code", httpResp.StatusCode, "provider_message_id", messageID, "to", to)

	return &SendResult{MessageID: messageID, Raw: respBody}, nil
}
