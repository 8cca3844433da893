// Package brevo wraps the Brevo transactional messaging REST API.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.brevo.com"

// Config holds Brevo client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client is a Brevo REST API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Brevo client.
func NewClient(config *Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Contact is an email sender or recipient.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Attachment is an inline file on a transactional email.
type Attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64
}

// EmailRequest is the POST /v3/smtp/email payload.
type EmailRequest struct {
	Sender      Contact                `json:"sender"`
	To          []Contact              `json:"to"`
	TemplateID  int64                  `json:"templateId,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`
	Subject     string                 `json:"subject,omitempty"`
	HTMLContent string                 `json:"htmlContent,omitempty"`
	Attachments []Attachment           `json:"attachment,omitempty"`
}

// EmailResponse carries the provider message id.
type EmailResponse struct {
	MessageID string `json:"messageId"`
}

// WhatsAppRequest is the POST /v3/whatsapp/sendMessage payload.
type WhatsAppRequest struct {
	TemplateID     int64                  `json:"templateId"`
	SenderNumber   string                 `json:"senderNumber"`
	ContactNumbers []string               `json:"contactNumbers"`
	Params         map[string]interface{} `json:"params,omitempty"`
}

// WhatsAppResponse carries the provider message id.
type WhatsAppResponse struct {
	MessageID string `json:"messageId"`
}

// APIError is a non-2xx answer from Brevo.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("brevo: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// SendEmail sends a transactional email.
func (c *Client) SendEmail(ctx context.Context, req *EmailRequest) (*EmailResponse, error) {
	var resp EmailResponse
	if err := c.post(ctx, "/v3/smtp/email", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendWhatsApp sends a WhatsApp template message.
func (c *Client) SendWhatsApp(ctx context.Context, req *WhatsAppRequest) (*WhatsAppResponse, error) {
	var resp WhatsAppResponse
	if err := c.post(ctx, "/v3/whatsapp/sendMessage", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: httpResp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
