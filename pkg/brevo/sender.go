package brevo

import (
	"context"
	"sync"
)

// EmailSender sends transactional emails.
type EmailSender interface {
	SendEmail(ctx context.Context, req *EmailRequest) (*EmailResponse, error)
}

// WhatsAppSender sends WhatsApp template messages.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, req *WhatsAppRequest) (*WhatsAppResponse, error)
}

// Sender combines both channels. *Client satisfies it.
type Sender interface {
	EmailSender
	WhatsAppSender
}

// MockSender records messages instead of sending them. Used in tests.
type MockSender struct {
	mu        sync.Mutex
	Emails    []*EmailRequest
	WhatsApps []*WhatsAppRequest
	EmailErr  error
	WhatsErr  error
}

// NewMockSender creates a mock sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

// SendEmail records the email.
func (m *MockSender) SendEmail(ctx context.Context, req *EmailRequest) (*EmailResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EmailErr != nil {
		return nil, m.EmailErr
	}
	m.Emails = append(m.Emails, req)
	return &EmailResponse{MessageID: "mock-email"}, nil
}

// SendWhatsApp records the message.
func (m *MockSender) SendWhatsApp(ctx context.Context, req *WhatsAppRequest) (*WhatsAppResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WhatsErr != nil {
		return nil, m.WhatsErr
	}
	m.WhatsApps = append(m.WhatsApps, req)
	return &WhatsAppResponse{MessageID: "mock-whatsapp"}, nil
}

// SentEmails returns a copy of the recorded emails.
func (m *MockSender) SentEmails() []*EmailRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*EmailRequest, len(m.Emails))
	copy(out, m.Emails)
	return out
}

// SentWhatsApps returns a copy of the recorded messages.
func (m *MockSender) SentWhatsApps() []*WhatsAppRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*WhatsAppRequest, len(m.WhatsApps))
	copy(out, m.WhatsApps)
	return out
}
