package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapform/zapform/models"
	testingutil "github.com/zapform/zapform/testing"
	"github.com/zapform/zapform/utils"
)

func newAccount(email string) *models.Account {
	apiKey, _ := utils.GenerateAPIKey()
	return &models.Account{
		UUID:            uuid.New(),
		Name:            "Test User",
		Email:           email,
		APIKey:          apiKey,
		WhatsAppToken:   "tok",
		PhoneNumberID:   "555000",
		RecipientNumber: "+15550102000",
		IsActive:        utils.ToPtr(true),
	}
}

func TestAccountRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewAccountRepository(testDB.DB)
		ctx := context.Background()

		t.Run("SaveAndLookup", func(t *testing.T) {
			account := newAccount("lookup@example.com")
			require.NoError(t, repo.Save(ctx, account))
			require.NotZero(t, account.ID)

			byEmail, err := repo.ByEmail(ctx, "lookup@example.com")
			require.NoError(t, err)
			require.NotNil(t, byEmail)
			assert.Equal(t, account.ID, byEmail.ID)

			byKey, err := repo.ByActiveAPIKey(ctx, account.APIKey)
			require.NoError(t, err)
			require.NotNil(t, byKey)
			assert.Equal(t, account.ID, byKey.ID)
		})

		t.Run("DuplicateEmailTranslated", func(t *testing.T) {
			first := newAccount("dup@example.com")
			require.NoError(t, repo.Save(ctx, first))

			second := newAccount("dup@example.com")
			err := repo.Save(ctx, second)
			require.Error(t, err)
			assert.True(t, IsDuplicateKey(err))
		})

		t.Run("InactiveAccountNotFoundByKey", func(t *testing.T) {
			account := newAccount("inactive@example.com")
			account.IsActive = utils.ToPtr(false)
			require.NoError(t, repo.Save(ctx, account))

			byKey, err := repo.ByActiveAPIKey(ctx, account.APIKey)
			require.NoError(t, err)
			assert.Nil(t, byKey)
		})

		t.Run("UnknownKeyReturnsNil", func(t *testing.T) {
			byKey, err := repo.ByActiveAPIKey(ctx, "zf_missing")
			require.NoError(t, err)
			assert.Nil(t, byKey)
		})

		t.Run("ByFilter", func(t *testing.T) {
			account := newAccount("filter@example.com")
			require.NoError(t, repo.Save(ctx, account))

			accounts, err := repo.ByFilter(ctx, models.AccountFilter{
				Email: utils.ToPtr("filter@example.com"),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, accounts, 1)
			assert.Equal(t, account.ID, accounts[0].ID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransactionRollback(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewAccountRepository(testDB.DB)
		ctx := context.Background()

		rollbackErr := assert.AnError
		err := WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, newAccount("rollback@example.com")); err != nil {
				return err
			}
			return rollbackErr
		})
		require.ErrorIs(t, err, rollbackErr)

		// The account save was rolled back with the transaction
		account, err := repo.ByEmail(ctx, "rollback@example.com")
		require.NoError(t, err)
		assert.Nil(t, account)

		return nil
	})
	require.NoError(t, err)
}
