// Package email provides outbound email delivery through a provider SDK,
// with a filesystem-backed sender for local development.
package email

import (
	"context"
	"errors"

	validation "github.com/jellydator/validation"

	appValidation "github.com/skillboard/skillboard/internal/validation"
)

var (
	// ErrInvalidConfig indicates the sender configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid email configuration")

	// ErrFailedToSend indicates the provider rejected or failed the delivery.
	ErrFailedToSend = errors.New("failed to send email")
)

// Sender delivers a single email message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a rendered email ready for delivery.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks that the message has a deliverable recipient and content.
func (m Message) Validate() error {
	return appValidation.WrapValidationError(validation.ValidateStruct(&m,
		validation.Field(&m.To,
			validation.Required,
			appValidation.Email,
		),
		validation.Field(&m.Subject,
			validation.Required,
			appValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&m.BodyHTML,
			validation.Required,
			appValidation.NotBlank,
		),
	))
}

// Config holds provider settings shared by all sender implementations.
type Config struct {
	PostmarkServerToken  string
	PostmarkAccountToken string
	SenderEmail          string
	SupportEmail         string
	DevEmailDir          string
}
