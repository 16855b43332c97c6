package oidc

import (
	"fmt"
	"net/http"
)

// registrationErrorCode is the error code of a client registration error
// response as defined by RFC 7591, section 3.2.2.
type registrationErrorCode string

const (
	InvalidClientMetadata registrationErrorCode = "invalid_client_metadata"
	InvalidRedirectURI    registrationErrorCode = "invalid_redirect_uri"
)

// ValidationReason identifies the rule a client metadata record violated.
type ValidationReason string

const (
	// ReasonUnsupportedValue signals a value outside the supported set of an enum field.
	ReasonUnsupportedValue ValidationReason = "unsupported_value"

	// ReasonDuplicateValue signals an exact duplicate entry within a list field.
	ReasonDuplicateValue ValidationReason = "duplicate_value"

	// ReasonMalformedURI signals a value that does not parse as a URI.
	ReasonMalformedURI ValidationReason = "malformed_uri"

	// ReasonNotAbsoluteURI signals a URI that parses but is not absolute.
	ReasonNotAbsoluteURI ValidationReason = "not_absolute_uri"

	// ReasonGrantResponseMismatch signals a response type whose required
	// grant type is missing from the grant type list.
	ReasonGrantResponseMismatch ValidationReason = "grant_response_mismatch"

	// ReasonOutputParameterNotAllowed signals a server-assigned field
	// supplied on a create or update request.
	ReasonOutputParameterNotAllowed ValidationReason = "output_parameter_not_allowed"
)

var (
	ErrUnsupportedValue = func(field, value string) *RegistrationError {
		return &RegistrationError{
			Reason:    ReasonUnsupportedValue,
			Code:      InvalidClientMetadata,
			FieldName: field,
			Value:     value,
		}
	}
	ErrDuplicateValue = func(field, value string) *RegistrationError {
		return &RegistrationError{
			Reason:    ReasonDuplicateValue,
			Code:      InvalidClientMetadata,
			FieldName: field,
			Value:     value,
		}
	}
	ErrMalformedURI = func(field, value string) *RegistrationError {
		return &RegistrationError{
			Reason:    ReasonMalformedURI,
			Code:      codeForURIField(field),
			FieldName: field,
			Value:     value,
		}
	}
	ErrNotAbsoluteURI = func(field, value string) *RegistrationError {
		return &RegistrationError{
			Reason:    ReasonNotAbsoluteURI,
			Code:      codeForURIField(field),
			FieldName: field,
			Value:     value,
		}
	}
	ErrGrantResponseMismatch = func(responseType, requiredGrant string) *RegistrationError {
		return &RegistrationError{
			Reason:        ReasonGrantResponseMismatch,
			Code:          InvalidClientMetadata,
			FieldName:     FieldResponseTypes,
			Value:         responseType,
			RequiredValue: requiredGrant,
		}
	}
	ErrOutputParameterNotAllowed = func(field string) *RegistrationError {
		return &RegistrationError{
			Reason:    ReasonOutputParameterNotAllowed,
			Code:      InvalidClientMetadata,
			FieldName: field,
		}
	}
)

// codeForURIField maps a URI shaped violation to its RFC 7591 error code.
// Only redirect_uris gets the dedicated invalid_redirect_uri code; the other
// URI list fields report invalid_client_metadata.
func codeForURIField(field string) registrationErrorCode {
	if field == FieldRedirectURIs {
		return InvalidRedirectURI
	}
	return InvalidClientMetadata
}

// RegistrationError is the structured result of a failed metadata validation.
// It identifies the violated rule precisely enough for a caller to render a
// protocol compliant, localized error response; it carries no user-facing text.
type RegistrationError struct {
	Parent        error                 `json:"-"`
	Reason        ValidationReason      `json:"reason"`
	Code          registrationErrorCode `json:"error"`
	FieldName     string                `json:"field"`
	Value         string                `json:"value,omitempty"`
	RequiredValue string                `json:"required_value,omitempty"`
}

func (e *RegistrationError) Error() string {
	message := "Reason=" + string(e.Reason) + " Field=" + e.FieldName
	if e.Value != "" {
		message += " Value=" + e.Value
	}
	if e.RequiredValue != "" {
		message += " Required=" + e.RequiredValue
	}
	if e.Parent != nil {
		message += " Parent=" + e.Parent.Error()
	}
	return message
}

func (e *RegistrationError) Unwrap() error {
	return e.Parent
}

func (e *RegistrationError) Is(target error) bool {
	t, ok := target.(*RegistrationError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason &&
		(e.FieldName == t.FieldName || t.FieldName == "") &&
		(e.Value == t.Value || t.Value == "")
}

func (e *RegistrationError) WithParent(err error) *RegistrationError {
	e.Parent = err
	return e
}

// StatusCode is the HTTP status a registration endpoint must answer with.
// Every metadata violation is a client error.
func (e *RegistrationError) StatusCode() int {
	return http.StatusBadRequest
}

// Description renders a debugging description for the error_description
// member of an error response. Localized rendering is the caller's concern.
func (e *RegistrationError) Description() string {
	switch e.Reason {
	case ReasonUnsupportedValue:
		return fmt.Sprintf("the value %q is not a supported value for the %s client registration metadata field", e.Value, e.FieldName)
	case ReasonDuplicateValue:
		return fmt.Sprintf("the value %q is a duplicate for the %s client registration metadata field", e.Value, e.FieldName)
	case ReasonMalformedURI:
		return fmt.Sprintf("the value %q for the client registration metadata field %s contains a malformed URI syntax", e.Value, e.FieldName)
	case ReasonNotAbsoluteURI:
		return fmt.Sprintf("the value %q for the client registration metadata field %s is not an absolute URI", e.Value, e.FieldName)
	case ReasonGrantResponseMismatch:
		return fmt.Sprintf("the client registration metadata field response_types contains value %q, which requires at least a matching grant_types value %q", e.Value, e.RequiredValue)
	case ReasonOutputParameterNotAllowed:
		return fmt.Sprintf("the client registration metadata field %s cannot be specified for a create or update action because it is an output parameter", e.FieldName)
	}
	return string(e.Reason)
}
