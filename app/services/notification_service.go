package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gopkg.in/gomail.v2"
)

// NotificationService delivers account notifications to owners
type NotificationService interface {
	SendAPIKeyEmail(email, name, apiKey string) error
}

// EmailProvider abstracts the outbound mail channel
type EmailProvider interface {
	Send(to, subject, body string) error
}

// EmailConfig holds SMTP configuration for outbound mail
type EmailConfig struct {
	Host      string        `json:"host"`
	Port      int           `json:"port"`
	Username  string        `json:"username"`
	Password  string        `json:"password"`
	FromEmail string        `json:"from_email"`
	FromName  string        `json:"from_name"`
	Timeout   time.Duration `json:"timeout"`
}

// SMTPEmailProvider implements EmailProvider over SMTP
type SMTPEmailProvider struct {
	config EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailProvider(config EmailConfig) EmailProvider {
	return &SMTPEmailProvider{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (p *SMTPEmailProvider) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

// MockEmailProvider implements EmailProvider for development and testing
type MockEmailProvider struct {
	mu       sync.Mutex
	Sent     []MockEmail
	FailWith error
}

// MockEmail records a single message sent through the mock provider
type MockEmail struct {
	To      string
	Subject string
	Body    string
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) Send(to, subject, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailWith != nil {
		return p.FailWith
	}

	p.Sent = append(p.Sent, MockEmail{To: to, Subject: subject, Body: body})
	log.Printf("mock email: %q to %s", subject, to)
	return nil
}

// NotificationServiceImpl implements NotificationService on top of an email provider
type NotificationServiceImpl struct {
	emailProvider EmailProvider
}

func NewNotificationService(emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
	}
}

// SendAPIKeyEmail sends the account API key to the owner after registration
func (s *NotificationServiceImpl) SendAPIKeyEmail(email, name, apiKey string) error {
	return s.emailProvider.Send(email, "Your ZapForm API Key", apiKeyEmailBody(name, apiKey))
}

func apiKeyEmailBody(name, apiKey string) string {
	return fmt.Sprintf(`Hello %s,

Welcome to ZapForm! Your account is ready.

Your API key:

    %s

Include this key as the "api_key" field of every form submission.
Keep it secret. Anyone holding the key can send messages to your
WhatsApp number.

The ZapForm Team`, name, apiKey)
}

// MockNotificationService implements NotificationService for development and testing
type MockNotificationService struct {
	mu       sync.Mutex
	Sent     []SentNotification
	FailWith error
}

// SentNotification records a single notification sent through the mock
type SentNotification struct {
	Email  string
	Name   string
	APIKey string
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendAPIKeyEmail(email, name, apiKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}

	m.Sent = append(m.Sent, SentNotification{Email: email, Name: name, APIKey: apiKey})
	return nil
}

// SentCount returns the number of notifications recorded by the mock
func (m *MockNotificationService) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
