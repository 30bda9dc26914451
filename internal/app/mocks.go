package app

import (
	"sync"

	"linktree_backend/internal/email"
	"linktree_backend/internal/logger"
)

// MockEmailProvider logs outgoing mail instead of sending it. Used for local
// development without SMTP and in tests.
type MockEmailProvider struct {
	mu           sync.Mutex
	verification map[string]string
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{verification: make(map[string]string)}
}

func (m *MockEmailProvider) Send(e *email.Email) error {
	logger.Info("Mock email", "to", e.To, "subject", e.Subject)
	return nil
}

func (m *MockEmailProvider) SendWithTemplate(templateName string, data email.TemplateData, e *email.Email) error {
	logger.Info("Mock templated email", "to", e.To, "template", templateName)
	return nil
}

func (m *MockEmailProvider) SendVerification(to string, verifyURL string) error {
	m.mu.Lock()
	m.verification[to] = verifyURL
	m.mu.Unlock()

	logger.Info("Mock verification email", "to", to, "url", verifyURL)
	return nil
}

// LastVerificationURL returns the most recent link sent to addr
func (m *MockEmailProvider) LastVerificationURL(addr string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.verification[addr]
	return u, ok
}

func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }
