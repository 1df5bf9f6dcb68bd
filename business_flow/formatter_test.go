package business_flow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSubmission(t *testing.T) {
	t.Run("FormatsFieldsInOrder", func(t *testing.T) {
		fields := []FormField{
			{Key: "name", Value: "John Doe"},
			{Key: "email", Value: "john@example.com"},
			{Key: "message", Value: "Hello there"},
		}

		message := FormatSubmission(fields)

		assert.True(t, strings.HasPrefix(message, "🔔 *New Contact Form Submission*\n\n"))
		assert.True(t, strings.HasSuffix(message, "\n_Sent via ZapForm_"))
		assert.Contains(t, message, "*Name:* John Doe\n")
		assert.Contains(t, message, "*Email:* john@example.com\n")
		assert.Contains(t, message, "*Message:* Hello there\n")

		nameIdx := strings.Index(message, "*Name:*")
		emailIdx := strings.Index(message, "*Email:*")
		messageIdx := strings.Index(message, "*Message:*")
		assert.Less(t, nameIdx, emailIdx)
		assert.Less(t, emailIdx, messageIdx)
	})

	t.Run("TitleCasesUnderscoredKeys", func(t *testing.T) {
		fields := []FormField{
			{Key: "phone_number", Value: "+15550100"},
			{Key: "company_name", Value: "Acme"},
		}

		message := FormatSubmission(fields)

		assert.Contains(t, message, "*Phone Number:* +15550100\n")
		assert.Contains(t, message, "*Company Name:* Acme\n")
	})

	t.Run("SkipsEmptyValues", func(t *testing.T) {
		fields := []FormField{
			{Key: "name", Value: "Jane"},
			{Key: "company", Value: ""},
		}

		message := FormatSubmission(fields)

		assert.Contains(t, message, "*Name:* Jane\n")
		assert.NotContains(t, message, "Company")
	})

	t.Run("KeepsWhitespaceOnlyValues", func(t *testing.T) {
		fields := []FormField{
			{Key: "name", Value: "Jane"},
			{Key: "budget", Value: "   "},
		}

		message := FormatSubmission(fields)

		assert.Contains(t, message, "*Budget:*    \n")
	})

	t.Run("NoFields", func(t *testing.T) {
		message := FormatSubmission(nil)

		assert.Equal(t, "🔔 *New Contact Form Submission*\n\n\n_Sent via ZapForm_", message)
	})
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Name", titleCase("name"))
	assert.Equal(t, "Phone Number", titleCase("phone number"))
	assert.Equal(t, "Already Cased", titleCase("Already Cased"))
	assert.Equal(t, "Email ADDRESS", titleCase("email ADDRESS"))
	assert.Equal(t, "Phone2number", titleCase("phone2number"))
	assert.Equal(t, "", titleCase(""))
	assert.Equal(t, "A  B", titleCase("a  b"))
}
