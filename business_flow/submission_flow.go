package business_flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/zapform/zapform/app/dto"
	"github.com/zapform/zapform/app/services"
	"github.com/zapform/zapform/models"
	"github.com/zapform/zapform/repository"
	"github.com/zapform/zapform/utils"
)

// SubmissionFlow handles authenticated form submissions and dispatch
type SubmissionFlow interface {
	Submit(ctx context.Context, apiKey string, fields []FormField, metadata *ClientMetadata) (*dto.SubmitResponse, error)
}

// SubmissionFlowImpl implements the submission business flow
type SubmissionFlowImpl struct {
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditLogRepository
	whatsappSvc services.WhatsAppService
}

func NewSubmissionFlow(
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	whatsappSvc services.WhatsAppService,
) SubmissionFlow {
	return &SubmissionFlowImpl{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		whatsappSvc: whatsappSvc,
	}
}

// Submit authenticates the API key, formats the submitted fields and
// dispatches them to the account's WhatsApp number. Dispatch never runs
// for requests that fail authentication.
func (s *SubmissionFlowImpl) Submit(ctx context.Context, apiKey string, fields []FormField, metadata *ClientMetadata) (*dto.SubmitResponse, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	account, err := s.accountRepo.ByActiveAPIKey(ctx, apiKey)
	if err != nil {
		return nil, NewBusinessError("SUBMISSION_FAILED", "Failed to look up API key", err)
	}
	if account == nil {
		s.auditUnauthorized(ctx, metadata)
		return nil, ErrInvalidAPIKey
	}

	message := FormatSubmission(fields)

	messageID, err := s.whatsappSvc.SendMessage(ctx, account.WhatsAppToken, account.PhoneNumberID, account.RecipientNumber, message)
	if err != nil {
		return nil, NewBusinessError("DISPATCH_FAILED", "Failed to dispatch message", err)
	}

	// A mock delivery id means the provider call degraded. The submission
	// still succeeds, but the degraded dispatch is kept on record.
	if strings.HasPrefix(messageID, "wamid.mock_") {
		s.auditDispatch(ctx, account, models.AuditActionDispatchDegraded, false, "provider call degraded to mock delivery", metadata)
	} else {
		s.auditDispatch(ctx, account, models.AuditActionSubmissionDispatched, true, "", metadata)
	}

	return &dto.SubmitResponse{
		Success:           true,
		Message:           "Form submitted successfully",
		WhatsAppMessageID: messageID,
	}, nil
}

func (s *SubmissionFlowImpl) auditDispatch(ctx context.Context, account *models.Account, action string, success bool, errMsg string, metadata *ClientMetadata) {
	description := fmt.Sprintf("Form submission dispatched for account %d", account.ID)
	if action == models.AuditActionDispatchDegraded {
		description = fmt.Sprintf("Degraded dispatch for account %d", account.ID)
	}

	auditLog := &models.AuditLog{
		AccountID:   &account.ID,
		Action:      action,
		Description: utils.ToPtr(description),
		Success:     utils.ToPtr(success),
	}
	if errMsg != "" {
		auditLog.ErrorMessage = utils.ToPtr(errMsg)
	}
	applyMetadata(auditLog, metadata)
	_ = s.auditRepo.Save(ctx, auditLog)
}

func (s *SubmissionFlowImpl) auditUnauthorized(ctx context.Context, metadata *ClientMetadata) {
	auditLog := &models.AuditLog{
		Action:       models.AuditActionSubmissionUnauthorized,
		Description:  utils.ToPtr("Submission rejected: unknown or inactive API key"),
		Success:      utils.ToPtr(false),
		ErrorMessage: utils.ToPtr("invalid API key"),
	}
	applyMetadata(auditLog, metadata)
	_ = s.auditRepo.Save(ctx, auditLog)
}
