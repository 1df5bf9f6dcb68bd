package business_flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapform/zapform/app/services"
	"github.com/zapform/zapform/models"
	"github.com/zapform/zapform/repository"
	testingutil "github.com/zapform/zapform/testing"
)

func TestSubmit(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		accountRepo := repository.NewAccountRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		metadata := NewClientMetadata("127.0.0.1", "test-agent", "req-2")

		fields := []FormField{
			{Key: "name", Value: "Jane"},
			{Key: "message", Value: "Hello"},
		}

		t.Run("SuccessfulSubmission", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)

			whatsapp := services.NewMockWhatsAppService()
			whatsapp.ResponseID = "wamid.real_123"
			flow := NewSubmissionFlow(accountRepo, auditRepo, whatsapp)

			result, err := flow.Submit(context.Background(), account.APIKey, fields, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Success)
			assert.Equal(t, "wamid.real_123", result.WhatsAppMessageID)

			// The dispatched message used the account credentials
			require.Equal(t, 1, whatsapp.SentCount())
			sent := whatsapp.Sent[0]
			assert.Equal(t, account.WhatsAppToken, sent.Token)
			assert.Equal(t, account.PhoneNumberID, sent.PhoneNumberID)
			assert.Equal(t, account.RecipientNumber, sent.Recipient)
			assert.Contains(t, sent.Message, "*Name:* Jane")
			assert.Contains(t, sent.Message, "*Message:* Hello")

			// Verify audit log was created
			logs, err := auditRepo.ListByAccount(context.Background(), account.ID, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, logs)
			assert.Equal(t, models.AuditActionSubmissionDispatched, logs[0].Action)
		})

		t.Run("MissingAPIKey", func(t *testing.T) {
			whatsapp := services.NewMockWhatsAppService()
			flow := NewSubmissionFlow(accountRepo, auditRepo, whatsapp)

			result, err := flow.Submit(context.Background(), "   ", fields, metadata)
			assert.Nil(t, result)
			assert.True(t, IsAPIKeyRequired(err))
			assert.Zero(t, whatsapp.SentCount())
		})

		t.Run("UnknownAPIKey", func(t *testing.T) {
			whatsapp := services.NewMockWhatsAppService()
			flow := NewSubmissionFlow(accountRepo, auditRepo, whatsapp)

			result, err := flow.Submit(context.Background(), "zf_does_not_exist", fields, metadata)
			assert.Nil(t, result)
			assert.True(t, IsInvalidAPIKey(err))

			// Dispatch never runs for unauthenticated requests
			assert.Zero(t, whatsapp.SentCount())
		})

		t.Run("InactiveAccountRejected", func(t *testing.T) {
			account, err := fixtures.CreateInactiveAccount()
			require.NoError(t, err)

			whatsapp := services.NewMockWhatsAppService()
			flow := NewSubmissionFlow(accountRepo, auditRepo, whatsapp)

			result, err := flow.Submit(context.Background(), account.APIKey, fields, metadata)
			assert.Nil(t, result)
			assert.True(t, IsInvalidAPIKey(err))
			assert.Zero(t, whatsapp.SentCount())
		})

		t.Run("DegradedDispatchAudited", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)

			// The mock returns a wamid.mock_ id by default, which the
			// flow treats as a degraded provider call
			whatsapp := services.NewMockWhatsAppService()
			flow := NewSubmissionFlow(accountRepo, auditRepo, whatsapp)

			result, err := flow.Submit(context.Background(), account.APIKey, fields, metadata)
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Contains(t, result.WhatsAppMessageID, "wamid.mock_")

			logs, err := auditRepo.ListByAccount(context.Background(), account.ID, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, logs)
			assert.Equal(t, models.AuditActionDispatchDegraded, logs[0].Action)
		})

		return nil
	})
	require.NoError(t, err)
}
