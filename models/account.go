// Package models contains domain entities and business models for the relay service
package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered owner of the relay service. It holds the WhatsApp
// send credentials and the API key that authenticates form submissions.
type Account struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_accounts_uuid" json:"uuid"`

	Name   string `gorm:"size:255;not null" json:"name"`
	Email  string `gorm:"size:255;not null;uniqueIndex:uk_accounts_email" json:"email"`
	APIKey string `gorm:"size:64;not null;uniqueIndex:uk_accounts_api_key" json:"-"` // Never serialize the API key

	// WhatsApp send configuration
	WhatsAppToken   string `gorm:"size:512;not null" json:"-"`
	PhoneNumberID   string `gorm:"size:64;not null" json:"phone_number_id"`
	RecipientNumber string `gorm:"size:32;not null" json:"recipient_number"`

	IsActive *bool `gorm:"default:true;index:idx_accounts_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"index:idx_accounts_created_at" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuditLogs []AuditLog `gorm:"foreignKey:AccountID" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// AccountFilter represents filter criteria for account queries
type AccountFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	APIKey        *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
