package business_flow

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapform/zapform/app/dto"
	"github.com/zapform/zapform/app/services"
	"github.com/zapform/zapform/models"
	"github.com/zapform/zapform/repository"
	testingutil "github.com/zapform/zapform/testing"
	"github.com/zapform/zapform/utils"
)

func TestRegister(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		accountRepo := repository.NewAccountRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		notificationService := services.NewMockNotificationService()

		registrationFlow := NewRegistrationFlow(accountRepo, auditRepo, notificationService, testDB.DB)

		metadata := NewClientMetadata("127.0.0.1", "test-agent", "req-1")

		t.Run("SuccessfulRegistration", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Name:            "John Doe",
				Email:           "john.doe@example.com",
				WhatsAppToken:   "token-123",
				PhoneNumberID:   "555000111222",
				RecipientNumber: "+1 555 010 0000",
				Terms:           true,
			}

			result, err := registrationFlow.Register(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Success)
			assert.Equal(t, "John Doe", result.User.Name)
			assert.Equal(t, "john.doe@example.com", result.User.Email)
			assert.NotZero(t, result.User.ID)

			// Verify account was created with an API key
			account, err := accountRepo.ByEmail(context.Background(), req.Email)
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.True(t, strings.HasPrefix(account.APIKey, "zf_"))
			assert.Len(t, account.APIKey, len("zf_")+24)
			assert.True(t, utils.IsTrue(account.IsActive))
			assert.NotEmpty(t, account.UUID)

			// Verify the notification was delivered with the same key
			require.Eventually(t, func() bool {
				return notificationService.SentCount() == 1
			}, 2*time.Second, 10*time.Millisecond)
			assert.Equal(t, account.APIKey, notificationService.Sent[0].APIKey)
			assert.Equal(t, req.Email, notificationService.Sent[0].Email)

			// Verify audit log was created
			auditLogs, err := auditRepo.ListByAccount(context.Background(), account.ID, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, auditLogs)
			assert.Equal(t, models.AuditActionRegistrationCompleted, auditLogs[0].Action)
		})

		t.Run("DuplicateEmailRejected", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Name:            "John Again",
				Email:           "john.doe@example.com",
				WhatsAppToken:   "token-456",
				PhoneNumberID:   "555000111333",
				RecipientNumber: "+1 555 010 0001",
				Terms:           true,
			}

			result, err := registrationFlow.Register(context.Background(), req, metadata)
			assert.Nil(t, result)
			assert.True(t, IsEmailAlreadyExists(err))

			// Only the original account exists
			accounts, err := accountRepo.ByFilter(context.Background(), models.AccountFilter{
				Email: utils.ToPtr("john.doe@example.com"),
			}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, accounts, 1)
		})

		t.Run("APIKeyNotInResponse", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Name:            "Alice",
				Email:           "alice@example.com",
				WhatsAppToken:   "token-789",
				PhoneNumberID:   "555000111444",
				RecipientNumber: "+1 555 010 0002",
				Terms:           true,
			}

			result, err := registrationFlow.Register(context.Background(), req, metadata)
			require.NoError(t, err)

			assert.Equal(t, "Alice", result.User.Name)
			assert.Equal(t, "alice@example.com", result.User.Email)
			// The response carries only id, name and email
			assert.NotContains(t, result.Message, "zf_")
		})

		t.Run("EmailFailureDoesNotFailRegistration", func(t *testing.T) {
			failing := services.NewMockNotificationService()
			failing.FailWith = assert.AnError

			flow := NewRegistrationFlow(accountRepo, auditRepo, failing, testDB.DB)

			req := &dto.RegisterRequest{
				Name:            "Bob",
				Email:           "bob@example.com",
				WhatsAppToken:   "token-000",
				PhoneNumberID:   "555000111555",
				RecipientNumber: "+1 555 010 0003",
				Terms:           true,
			}

			result, err := flow.Register(context.Background(), req, metadata)
			require.NoError(t, err)
			assert.True(t, result.Success)

			// The delivery failure ends up in the audit log
			account, err := accountRepo.ByEmail(context.Background(), req.Email)
			require.NoError(t, err)
			require.NotNil(t, account)

			require.Eventually(t, func() bool {
				logs, err := auditRepo.ListByAccount(context.Background(), account.ID, 10, 0)
				if err != nil {
					return false
				}
				for _, l := range logs {
					if l.Action == models.AuditActionAPIKeyEmailFailed {
						return true
					}
				}
				return false
			}, 2*time.Second, 10*time.Millisecond)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGenerateAPIKeyUniqueness(t *testing.T) {
	keyPattern := regexp.MustCompile(`^zf_[0-9a-f]{24}$`)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		key, err := utils.GenerateAPIKey()
		require.NoError(t, err)
		require.Regexp(t, keyPattern, key)
		_, dup := seen[key]
		require.False(t, dup, "duplicate API key generated")
		seen[key] = struct{}{}
	}
}
