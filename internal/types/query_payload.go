package types

import (
	"context"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// PostQueryPayload is the body of POST /api/v1/query.
type PostQueryPayload struct {
	// GraphQL query text
	// Required: true
	// Min Length: 1
	Query *string `json:"query"`

	// Optional query variables
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Validate validates PostQueryPayload
func (m *PostQueryPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("query", "body", m.Query); err != nil {
		res = append(res, err)
	} else if err := validate.MinLength("query", "body", swag.StringValue(m.Query), 1); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostQueryPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// AuditLogEntry is one entry of an envelope's audit log.
type AuditLogEntry struct {
	// Issuance time of the signature, RFC 3339 UTC seconds
	// Required: true
	// Format: date-time
	Ts *string `json:"ts"`

	// Required: true
	Event *string `json:"event"`

	// Upstream request id, null when the result carried none
	FoundryRequestID *string `json:"foundry_request_id"`

	// Required: true
	DatasetURN *string `json:"dataset_urn"`
}

// Validate validates AuditLogEntry
func (m *AuditLogEntry) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("ts", "body", m.Ts); err != nil {
		res = append(res, err)
	} else if err := validate.FormatOf("ts", "body", "date-time", *m.Ts, formats); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("event", "body", m.Event); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("dataset_urn", "body", m.DatasetURN); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// EnvelopeResponse is the signed response of POST /api/v1/query.
type EnvelopeResponse struct {
	// Upstream result as returned by the data service
	// Required: true
	Data interface{} `json:"data"`

	// Compact ES256 JWS over the canonical form of data
	// Required: true
	// Pattern: ^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+$
	SignedResponse *string `json:"signed_response"`

	// Required: true
	// Min Items: 1
	AuditLog []*AuditLogEntry `json:"audit_log"`
}

// Validate validates EnvelopeResponse
func (m *EnvelopeResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if m.Data == nil {
		res = append(res, errors.Required("data", "body", m.Data))
	}

	if err := validate.Required("signed_response", "body", m.SignedResponse); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("signed_response", "body", *m.SignedResponse, `^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+$`); err != nil {
		res = append(res, err)
	}

	if len(m.AuditLog) == 0 {
		res = append(res, errors.Required("audit_log", "body", m.AuditLog))
	}
	for i, entry := range m.AuditLog {
		if entry == nil {
			continue
		}
		if err := entry.Validate(formats); err != nil {
			if ve, ok := err.(*errors.Validation); ok {
				return ve.ValidateName("audit_log" + "." + swag.FormatInt64(int64(i)))
			}
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// MarshalBinary interface implementation
func (m *EnvelopeResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *EnvelopeResponse) UnmarshalBinary(b []byte) error {
	var res EnvelopeResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
