package business_flow

import (
	"strings"
)

const (
	messageHeader = "🔔 *New Contact Form Submission*\n\n"
	messageFooter = "\n_Sent via ZapForm_"
)

// FormatSubmission renders submitted form fields as a WhatsApp text message.
// Fields appear in submission order, empty values are skipped, and keys are
// shown with underscores replaced by spaces in title case.
func FormatSubmission(fields []FormField) string {
	var b strings.Builder
	b.WriteString(messageHeader)

	for _, field := range fields {
		if field.Value == "" {
			continue
		}
		b.WriteString("*")
		b.WriteString(titleCase(strings.ReplaceAll(field.Key, "_", " ")))
		b.WriteString(":* ")
		b.WriteString(field.Value)
		b.WriteString("\n")
	}

	b.WriteString(messageFooter)
	return b.String()
}

// titleCase upper-cases the first letter of each space-separated word.
// The rest of each word is left untouched, so "email ADDRESS" becomes
// "Email ADDRESS" and digits never start a new word. Field keys are
// expected to be lowercase snake_case, where this matches full title
// casing.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
