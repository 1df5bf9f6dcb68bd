// Package models contains domain entities and business models for the relay service
package models

import (
	"time"
)

// AuditLog records the server-side outcome of registration and submission
// handling. Downstream-provider failures never reach the caller, so this is
// the only durable trace of a degraded dispatch or a failed notification.
type AuditLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AccountID    *uint     `gorm:"index:idx_audit_account_id" json:"account_id,omitempty"`
	Account      *Account  `gorm:"foreignKey:AccountID;references:ID" json:"account,omitempty"`
	Action       string    `gorm:"size:64;not null;index:idx_audit_action" json:"action"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string   `gorm:"size:64;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string   `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string   `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Success      *bool     `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionRegistrationCompleted  = "registration_completed"
	AuditActionRegistrationFailed     = "registration_failed"
	AuditActionAPIKeyEmailFailed      = "api_key_email_failed"
	AuditActionSubmissionDispatched   = "submission_dispatched"
	AuditActionSubmissionUnauthorized = "submission_unauthorized"
	AuditActionDispatchDegraded       = "dispatch_degraded"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	AccountID     *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
