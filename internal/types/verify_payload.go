package types

import (
	"context"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// PostVerifyPayload is the body of POST /api/v1/verify.
type PostVerifyPayload struct {
	// Required: true
	// Min Length: 1
	SignedResponse *string `json:"signed_response"`
}

// Validate validates PostVerifyPayload
func (m *PostVerifyPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("signed_response", "body", m.SignedResponse); err != nil {
		res = append(res, err)
	} else if err := validate.MinLength("signed_response", "body", swag.StringValue(m.SignedResponse), 1); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostVerifyPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// VerifyResponse reports a successful verification and the signed payload.
type VerifyResponse struct {
	// Required: true
	Valid *bool `json:"valid"`

	// Required: true
	Data interface{} `json:"data"`
}

// Validate validates VerifyResponse
func (m *VerifyResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("valid", "body", m.Valid); err != nil {
		res = append(res, err)
	}

	if m.Data == nil {
		res = append(res, errors.Required("data", "body", m.Data))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
