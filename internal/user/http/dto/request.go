// Package dto defines the HTTP request and response shapes for user endpoints.
package dto

import (
	validation "github.com/jellydator/validation"
)

// UpdatePreferencesRequest carries the full set of notification channel flags.
// All three flags must be present so a partial body cannot silently re-enable
// a channel the user turned off.
type UpdatePreferencesRequest struct {
	Marketing      *bool `json:"marketing"`
	Digest         *bool `json:"digest"`
	ProductUpdates *bool `json:"product_updates"`
}

// Validate checks that every channel flag is present.
func (r UpdatePreferencesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Marketing, validation.NotNil.Error("marketing is required")),
		validation.Field(&r.Digest, validation.NotNil.Error("digest is required")),
		validation.Field(&r.ProductUpdates, validation.NotNil.Error("product_updates is required")),
	)
}
