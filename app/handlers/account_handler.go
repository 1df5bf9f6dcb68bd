// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/zapform/zapform/app/dto"
	businessflow "github.com/zapform/zapform/business_flow"
)

// Matches user@domain.tld without the full RFC 5322 grammar
var emailBasicPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountHandlerInterface defines the contract for account handlers
type AccountHandlerInterface interface {
	Register(c fiber.Ctx) error
}

// AccountHandler handles account registration HTTP requests
type AccountHandler struct {
	registrationFlow businessflow.RegistrationFlow
	validator        *validator.Validate
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(registrationFlow businessflow.RegistrationFlow) *AccountHandler {
	handler := &AccountHandler{
		registrationFlow: registrationFlow,
		validator:        validator.New(),
	}

	handler.setupCustomValidations()

	return handler
}

func (h *AccountHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// Register handles new account registration
func (h *AccountHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.WhatsAppToken = strings.TrimSpace(req.WhatsAppToken)
	req.PhoneNumberID = strings.TrimSpace(req.PhoneNumberID)
	req.RecipientNumber = strings.TrimSpace(req.RecipientNumber)

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"), c.Get("X-Request-ID"))

	result, err := h.registrationFlow.Register(h.createRequestContext(c), &req, metadata)
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "An account with this email already exists", "EMAIL_EXISTS", nil)
		}

		log.Println("Registration failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Registration failed", "REGISTRATION_FAILED", nil)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// createRequestContext creates a context with a request timeout
func (h *AccountHandler) createRequestContext(c fiber.Ctx) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	context.AfterFunc(ctx, cancel)
	return ctx
}

// Custom validation setup
func (h *AccountHandler) setupCustomValidations() {
	// Register lightweight email validation matching the public form
	h.validator.RegisterValidation("email_basic", func(fl validator.FieldLevel) bool {
		return emailBasicPattern.MatchString(fl.Field().String())
	})
}
