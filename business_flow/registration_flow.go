package business_flow

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zapform/zapform/app/dto"
	"github.com/zapform/zapform/app/services"
	"github.com/zapform/zapform/models"
	"github.com/zapform/zapform/repository"
	"github.com/zapform/zapform/utils"
)

// RegistrationFlow handles account registration and API key provisioning
type RegistrationFlow interface {
	Register(ctx context.Context, request *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error)
}

// RegistrationFlowImpl implements the registration business flow
type RegistrationFlowImpl struct {
	accountRepo     repository.AccountRepository
	auditRepo       repository.AuditLogRepository
	notificationSvc services.NotificationService
	db              *gorm.DB
}

func NewRegistrationFlow(
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) RegistrationFlow {
	return &RegistrationFlowImpl{
		accountRepo:     accountRepo,
		auditRepo:       auditRepo,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// Register provisions a new account with a fresh API key. The key is sent
// to the owner by email and never returned in the response.
func (r *RegistrationFlowImpl) Register(ctx context.Context, request *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error) {
	// Check email uniqueness before opening a transaction. The unique
	// index on accounts.email remains the authority under concurrency.
	existing, err := r.accountRepo.ByEmail(ctx, request.Email)
	if err != nil {
		return nil, NewBusinessError("REGISTRATION_FAILED", "Failed to check existing accounts", err)
	}
	if existing != nil {
		r.auditRegistrationFailed(ctx, request.Email, "email already registered", metadata)
		return nil, ErrEmailAlreadyExists
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, NewBusinessError("REGISTRATION_FAILED", "Failed to generate API key", err)
	}

	account := &models.Account{
		UUID:            uuid.New(),
		Name:            request.Name,
		Email:           request.Email,
		APIKey:          apiKey,
		WhatsAppToken:   request.WhatsAppToken,
		PhoneNumberID:   request.PhoneNumberID,
		RecipientNumber: request.RecipientNumber,
		IsActive:        utils.ToPtr(true),
	}

	err = repository.WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		if err := r.accountRepo.Save(txCtx, account); err != nil {
			return err
		}

		auditLog := &models.AuditLog{
			AccountID:   &account.ID,
			Action:      models.AuditActionRegistrationCompleted,
			Description: utils.ToPtr(fmt.Sprintf("Account registered for %s", request.Email)),
			Success:     utils.ToPtr(true),
		}
		applyMetadata(auditLog, metadata)
		return r.auditRepo.Save(txCtx, auditLog)
	})
	if err != nil {
		if repository.IsDuplicateKey(err) {
			r.auditRegistrationFailed(ctx, request.Email, "email already registered", metadata)
			return nil, ErrEmailAlreadyExists
		}
		return nil, NewBusinessError("REGISTRATION_FAILED", "Failed to create account", err)
	}

	// Deliver the API key out of band. Email failure is recorded but does
	// not fail the registration; the account already exists.
	go r.deliverAPIKey(account, apiKey, metadata)

	return &dto.RegisterResponse{
		Success: true,
		Message: "Registration successful! Check your email for your API key.",
		User: dto.RegisteredUser{
			ID:    account.ID,
			Name:  account.Name,
			Email: account.Email,
		},
	}, nil
}

func (r *RegistrationFlowImpl) deliverAPIKey(account *models.Account, apiKey string, metadata *ClientMetadata) {
	if err := r.notificationSvc.SendAPIKeyEmail(account.Email, account.Name, apiKey); err != nil {
		log.Printf("failed to email API key to %s: %v", account.Email, err)

		ctx, cancel := context.WithTimeout(context.Background(), utils.RequestTimeout)
		defer cancel()

		auditLog := &models.AuditLog{
			AccountID:    &account.ID,
			Action:       models.AuditActionAPIKeyEmailFailed,
			Description:  utils.ToPtr(fmt.Sprintf("API key email to %s failed", account.Email)),
			Success:      utils.ToPtr(false),
			ErrorMessage: utils.ToPtr(err.Error()),
		}
		applyMetadata(auditLog, metadata)
		_ = r.auditRepo.Save(ctx, auditLog)
	}
}

func (r *RegistrationFlowImpl) auditRegistrationFailed(ctx context.Context, email, reason string, metadata *ClientMetadata) {
	auditLog := &models.AuditLog{
		Action:       models.AuditActionRegistrationFailed,
		Description:  utils.ToPtr(fmt.Sprintf("Registration for %s rejected: %s", email, reason)),
		Success:      utils.ToPtr(false),
		ErrorMessage: utils.ToPtr(reason),
	}
	applyMetadata(auditLog, metadata)
	_ = r.auditRepo.Save(ctx, auditLog)
}

func applyMetadata(auditLog *models.AuditLog, metadata *ClientMetadata) {
	if metadata == nil {
		return
	}
	if metadata.IPAddress != "" {
		auditLog.IPAddress = utils.ToPtr(metadata.IPAddress)
	}
	if metadata.UserAgent != "" {
		auditLog.UserAgent = utils.ToPtr(metadata.UserAgent)
	}
	if metadata.RequestID != "" {
		auditLog.RequestID = utils.ToPtr(metadata.RequestID)
	}
}
