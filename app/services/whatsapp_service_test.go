package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	t.Run("SuccessfulDelivery", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotBody)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.ABC123"}]}`))
		}))
		defer server.Close()

		svc := NewWhatsAppService(WhatsAppConfig{
			BaseURL:    server.URL,
			APIVersion: "v17.0",
			Timeout:    2 * time.Second,
		})

		id, err := svc.SendMessage(context.Background(), "tok", "555000", "+1 (555) 010-2000", "hello")
		require.NoError(t, err)
		assert.Equal(t, "wamid.ABC123", id)

		assert.Equal(t, "/v17.0/555000/messages", gotPath)
		assert.Equal(t, "Bearer tok", gotAuth)
		assert.Equal(t, "whatsapp", gotBody["messaging_product"])
		assert.Equal(t, "15550102000", gotBody["to"])
		assert.Equal(t, "text", gotBody["type"])
		text := gotBody["text"].(map[string]any)
		assert.Equal(t, "hello", text["body"])
	})

	t.Run("ProviderErrorDegradesToMock", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"down"}}`))
		}))
		defer server.Close()

		svc := NewWhatsAppService(WhatsAppConfig{
			BaseURL: server.URL,
			Timeout: 2 * time.Second,
		})

		id, err := svc.SendMessage(context.Background(), "tok", "555000", "+15550102000", "hello")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "wamid.mock_"))
	})

	t.Run("UnreachableProviderDegradesToMock", func(t *testing.T) {
		svc := NewWhatsAppService(WhatsAppConfig{
			BaseURL: "http://127.0.0.1:1",
			Timeout: 500 * time.Millisecond,
		})

		id, err := svc.SendMessage(context.Background(), "tok", "555000", "+15550102000", "hello")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "wamid.mock_"))
	})

	t.Run("MalformedResponseDegradesToMock", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"messages":[]}`))
		}))
		defer server.Close()

		svc := NewWhatsAppService(WhatsAppConfig{
			BaseURL: server.URL,
			Timeout: 2 * time.Second,
		})

		id, err := svc.SendMessage(context.Background(), "tok", "555000", "+15550102000", "hello")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "wamid.mock_"))
	})
}

func TestNormalizeRecipient(t *testing.T) {
	assert.Equal(t, "15550102000", normalizeRecipient("+1 (555) 010-2000"))
	assert.Equal(t, "4915112345678", normalizeRecipient("+49 151 1234 5678"))
	assert.Equal(t, "12345", normalizeRecipient("12345"))
	assert.Equal(t, "", normalizeRecipient("none"))
}
