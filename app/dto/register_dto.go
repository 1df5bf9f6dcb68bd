package dto

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=255"`
	Email           string `json:"email" validate:"required,email_basic,max=255"`
	WhatsAppToken   string `json:"whatsapp_token" validate:"required,min=1"`
	PhoneNumberID   string `json:"phone_number_id" validate:"required,min=1"`
	RecipientNumber string `json:"recipient_number" validate:"required,min=1"`
	Terms           bool   `json:"terms" validate:"required"`
}

// RegisteredUser is the public account view returned after registration
type RegisteredUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterResponse is returned on successful registration. The API key is
// delivered by email only and never appears here.
type RegisterResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    RegisteredUser `json:"user"`
}
