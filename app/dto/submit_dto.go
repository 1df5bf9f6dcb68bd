package dto

// SubmitResponse is returned after a form submission is dispatched
type SubmitResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	WhatsAppMessageID string `json:"whatsapp_message_id"`
}

// FormSubmissionRequest represents a browser form post. Unlike the JSON
// endpoint it carries a fixed set of fields.
type FormSubmissionRequest struct {
	APIKey  string `form:"api_key"`
	Name    string `form:"name"`
	Email   string `form:"email"`
	Phone   string `form:"phone"`
	Subject string `form:"subject"`
	Company string `form:"company"`
	Budget  string `form:"budget"`
	Message string `form:"message"`
}
