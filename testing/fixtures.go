// Package testing provides test utilities and database setup for testing the form relay service
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/zapform/zapform/models"
	"github.com/zapform/zapform/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAccount creates an active account with a fresh API key
func (tf *TestFixtures) CreateTestAccount() (*models.Account, error) {
	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate test API key: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	account := &models.Account{
		UUID:            uuid.New(),
		Name:            "Jane Doe",
		Email:           fmt.Sprintf("jane.doe.%s@example.com", randomDigits),
		APIKey:          apiKey,
		WhatsAppToken:   "test-whatsapp-token",
		PhoneNumberID:   "123456789012345",
		RecipientNumber: "+1 (555) 010-" + randomDigits[:4],
		IsActive:        utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create test account: %w", err)
	}

	return account, nil
}

// CreateInactiveAccount creates a deactivated account for authentication tests
func (tf *TestFixtures) CreateInactiveAccount() (*models.Account, error) {
	account, err := tf.CreateTestAccount()
	if err != nil {
		return nil, err
	}

	account.IsActive = utils.ToPtr(false)
	if err := tf.DB.DB.Save(account).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate test account: %w", err)
	}

	return account, nil
}
