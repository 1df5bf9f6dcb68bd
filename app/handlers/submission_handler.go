// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/zapform/zapform/app/dto"
	businessflow "github.com/zapform/zapform/business_flow"
)

// SubmissionHandlerInterface defines the contract for submission handlers
type SubmissionHandlerInterface interface {
	SubmitJSON(c fiber.Ctx) error
	SubmitForm(c fiber.Ctx) error
}

// SubmissionHandler handles form submission HTTP requests
type SubmissionHandler struct {
	submissionFlow businessflow.SubmissionFlow
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionFlow businessflow.SubmissionFlow) *SubmissionHandler {
	return &SubmissionHandler{
		submissionFlow: submissionFlow,
	}
}

func (h *SubmissionHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SubmitJSON handles API form submissions. The raw body is parsed directly
// so that fields keep their submission order in the outgoing message.
func (h *SubmissionHandler) SubmitJSON(c fiber.Ctx) error {
	apiKey, fields, err := businessflow.ParseOrderedSubmission(c.Body())
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"), c.Get("X-Request-ID"))

	result, err := h.submissionFlow.Submit(h.createRequestContext(c), apiKey, fields, metadata)
	if err != nil {
		if businessflow.IsAPIKeyRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "API key is required", "API_KEY_REQUIRED", nil)
		}
		if businessflow.IsInvalidAPIKey(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid API key", "INVALID_API_KEY", nil)
		}

		log.Println("Submission failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Submission failed", "SUBMISSION_FAILED", nil)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// SubmitForm handles browser form posts. Failures render HTML pages and
// success redirects to the static success page.
func (h *SubmissionHandler) SubmitForm(c fiber.Ctx) error {
	var req dto.FormSubmissionRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.htmlError(c, fiber.StatusBadRequest, invalidSubmissionPage)
	}

	// Fixed fields are emitted in this order in the outgoing message
	fields := []businessflow.FormField{
		{Key: "name", Value: req.Name},
		{Key: "email", Value: req.Email},
		{Key: "phone", Value: req.Phone},
		{Key: "message", Value: req.Message},
		{Key: "budget", Value: req.Budget},
		{Key: "company", Value: req.Company},
		{Key: "subject", Value: req.Subject},
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"), c.Get("X-Request-ID"))

	_, err := h.submissionFlow.Submit(h.createRequestContext(c), req.APIKey, fields, metadata)
	if err != nil {
		if businessflow.IsAPIKeyRequired(err) || businessflow.IsInvalidAPIKey(err) {
			return h.htmlError(c, fiber.StatusUnauthorized, invalidKeyPage)
		}

		log.Println("Form submission failed", err)
		return h.htmlError(c, fiber.StatusInternalServerError, submissionErrorPage)
	}

	return c.Redirect().Status(fiber.StatusFound).To("/success.html")
}

func (h *SubmissionHandler) htmlError(c fiber.Ctx, statusCode int, page string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(statusCode).SendString(page)
}

// createRequestContext creates a context with a request timeout
func (h *SubmissionHandler) createRequestContext(c fiber.Ctx) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	context.AfterFunc(ctx, cancel)
	return ctx
}

const invalidKeyPage = `<!DOCTYPE html>
<html>
<head><title>Invalid API Key</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
<h1>Invalid API Key</h1>
<p>The API key on this form is missing or not recognized.</p>
<p><a href="javascript:history.back()">Go back</a></p>
</body>
</html>`

const invalidSubmissionPage = `<!DOCTYPE html>
<html>
<head><title>Invalid Submission</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
<h1>Invalid Submission</h1>
<p>The form could not be read. Please try again.</p>
<p><a href="javascript:history.back()">Go back</a></p>
</body>
</html>`

const submissionErrorPage = `<!DOCTYPE html>
<html>
<head><title>Something Went Wrong</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
<h1>Something Went Wrong</h1>
<p>Your message could not be sent. Please try again later.</p>
<p><a href="javascript:history.back()">Go back</a></p>
</body>
</html>`
