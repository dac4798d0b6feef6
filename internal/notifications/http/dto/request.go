// Package dto contains request and response payloads for notification endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/skillboard/skillboard/internal/validation"
)

// UnsubscribeRequest is the body of the one-click unsubscribe endpoint.
type UnsubscribeRequest struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

// Validate checks that both fields are present. Token and type semantics
// are enforced by the use case, not here.
func (r UnsubscribeRequest) Validate() error {
	return appValidation.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Token,
			validation.Required,
		),
		validation.Field(&r.Type,
			validation.Required,
		),
	))
}
