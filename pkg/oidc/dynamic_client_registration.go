package oidc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v3"
	"github.com/muhlemmer/gu"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
)

// Client registration metadata field names as they appear on the wire.
// Validation errors reference fields by these names.
const (
	FieldApplicationType         = "application_type"
	FieldResponseTypes           = "response_types"
	FieldGrantTypes              = "grant_types"
	FieldRedirectURIs            = "redirect_uris"
	FieldPostLogoutRedirectURIs  = "post_logout_redirect_uris"
	FieldTrustedURIPrefixes      = "trusted_uri_prefixes"
	FieldScope                   = "scope"
	FieldPreauthorizedScope      = "preauthorized_scope"
	FieldSubjectType             = "subject_type"
	FieldTokenEndpointAuthMethod = "token_endpoint_auth_method"
	FieldFunctionalUserGroupIDs  = "functional_user_groupIds"
	FieldClientIDIssuedAt        = "client_id_issued_at"
	FieldClientSecretExpiresAt   = "client_secret_expires_at"
	FieldRegistrationClientURI   = "registration_client_uri"
)

// ClientMetadata is a flat client record following
// https://www.rfc-editor.org/rfc/rfc7591#section-2 and
// https://openid.net/specs/openid-connect-registration-1_0.html#ClientMetadata,
// plus the trusted URI prefix and functional user group extensions.
//
// The record is used both as input to registration requests and as output of
// registration, read and update responses. The three URI list fields and the
// group ID list keep the wire distinction between absent (nil) and empty:
// a nil list marshals as JSON null, an empty one as [].
type ClientMetadata struct {
	// ClientID and ClientSecret are issued by the server and only ever
	// present on responses and update requests.
	ClientID     string `json:"client_id,omitempty" schema:"client_id"`
	ClientSecret string `json:"client_secret,omitempty" schema:"-"`

	// ClientName is a human-readable name of the client to be presented to
	// the end-user during authorization. Callers may submit it
	// percent-encoded; the validator decodes it best-effort.
	ClientName string `json:"client_name,omitempty" schema:"-"`

	// ClientNameLocalized holds language-tagged client_name values
	// (RFC 7591, section 2.2), keyed by BCP 47 tag.
	ClientNameLocalized map[language.Tag]string `json:"-" schema:"-"`

	ApplicationType ApplicationType `json:"application_type,omitempty" schema:"-"`

	ResponseTypes []ResponseType `json:"response_types" schema:"-"`
	GrantTypes    []GrantType    `json:"grant_types" schema:"-"`

	RedirectURIs           []string `json:"redirect_uris" schema:"-"`
	PostLogoutRedirectURIs []string `json:"post_logout_redirect_uris" schema:"-"`

	// TrustedURIPrefixes are URI prefixes pre-approved for redirect
	// matching. Validated entries are rewritten slash-terminated.
	TrustedURIPrefixes []string `json:"trusted_uri_prefixes" schema:"-"`

	// Scope is a space-delimited list of scope values the client can request.
	Scope string `json:"scope,omitempty" schema:"-"`

	// PreauthorizedScope is a space-delimited list of scopes granted without
	// user consent. It is deliberately not cross-checked against Scope;
	// the runtime reduces it downstream.
	PreauthorizedScope string `json:"preauthorized_scope,omitempty" schema:"-"`

	SubjectType             SubjectType `json:"subject_type,omitempty" schema:"-"`
	TokenEndpointAuthMethod AuthMethod  `json:"token_endpoint_auth_method,omitempty" schema:"-"`

	// FunctionalUserGroupIDs name the functional user groups of the client;
	// they are opaque identifiers, not URIs.
	FunctionalUserGroupIDs []string `json:"functional_user_groupIds" schema:"-"`

	// JWKSURI and JWKS carry the client's public keys (RFC 7591, section 2).
	// They MUST NOT both be present in the same record.
	JWKSURI string              `json:"jwks_uri,omitempty" schema:"-"`
	JWKS    *jose.JSONWebKeySet `json:"jwks,omitempty" schema:"-"`

	// ClientIDIssuedAt, ClientSecretExpiresAt and RegistrationClientURI are
	// output parameters assigned by the server; supplying them on a create
	// or update request fails validation.
	ClientIDIssuedAt      int64  `json:"client_id_issued_at,omitempty" schema:"-"`
	ClientSecretExpiresAt int64  `json:"client_secret_expires_at,omitempty" schema:"-"`
	RegistrationClientURI string `json:"registration_client_uri,omitempty" schema:"-"`

	// ExtraParameters holds extension parameters passed through unmodified.
	ExtraParameters map[string]any `json:"-" schema:"-"`
}

// Clone returns an independent deep copy of the record. A validator owns such
// a copy for the duration of a call so the caller's record is never mutated.
func (c *ClientMetadata) Clone() *ClientMetadata {
	if c == nil {
		return nil
	}
	clone := *c
	clone.ResponseTypes = slices.Clone(c.ResponseTypes)
	clone.GrantTypes = slices.Clone(c.GrantTypes)
	clone.RedirectURIs = slices.Clone(c.RedirectURIs)
	clone.PostLogoutRedirectURIs = slices.Clone(c.PostLogoutRedirectURIs)
	clone.TrustedURIPrefixes = slices.Clone(c.TrustedURIPrefixes)
	clone.FunctionalUserGroupIDs = slices.Clone(c.FunctionalUserGroupIDs)
	if c.ClientNameLocalized != nil {
		clone.ClientNameLocalized = gu.MapCopy(c.ClientNameLocalized)
	}
	if c.ExtraParameters != nil {
		clone.ExtraParameters = gu.MapCopy(c.ExtraParameters)
	}
	if c.JWKS != nil {
		jwks := *c.JWKS
		jwks.Keys = slices.Clone(c.JWKS.Keys)
		clone.JWKS = &jwks
	}
	return &clone
}

// clientMetadataAlias prevents UnmarshalJSON / MarshalJSON recursion.
type clientMetadataAlias ClientMetadata

func (c *ClientMetadata) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*clientMetadataAlias)(c)); err != nil {
		return fmt.Errorf("client metadata: %w", err)
	}

	// Collect language-tagged client names and unknown extension parameters.
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return fmt.Errorf("client metadata: %w", err)
	}
	for key, value := range rawMap {
		switch {
		case strings.HasPrefix(key, "client_name#"):
			tag, err := language.Parse(strings.TrimPrefix(key, "client_name#"))
			if err != nil {
				return fmt.Errorf("client metadata: language tag of %q: %w", key, err)
			}
			var name string
			if err := json.Unmarshal(value, &name); err != nil {
				return fmt.Errorf("client metadata: %q: %w", key, err)
			}
			if c.ClientNameLocalized == nil {
				c.ClientNameLocalized = make(map[language.Tag]string)
			}
			c.ClientNameLocalized[tag] = name
		case knownMetadataKeys[key]:
			continue
		default:
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return fmt.Errorf("client metadata: %q: %w", key, err)
			}
			if c.ExtraParameters == nil {
				c.ExtraParameters = make(map[string]any)
			}
			c.ExtraParameters[key] = v
		}
	}
	return nil
}

func (c ClientMetadata) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(clientMetadataAlias(c))
	if err != nil {
		return nil, err
	}
	if len(c.ClientNameLocalized) == 0 && len(c.ExtraParameters) == 0 {
		return data, nil
	}

	combined := make(map[string]any, len(c.ExtraParameters)+len(c.ClientNameLocalized))
	if err := json.Unmarshal(data, &combined); err != nil {
		return nil, err
	}
	for tag, name := range c.ClientNameLocalized {
		combined[fmt.Sprintf("client_name#%s", tag)] = name
	}
	for key, value := range c.ExtraParameters {
		combined[key] = value
	}
	return json.Marshal(combined)
}

var knownMetadataKeys = map[string]bool{
	"client_id":                  true,
	"client_secret":              true,
	"client_name":                true,
	FieldApplicationType:         true,
	FieldResponseTypes:           true,
	FieldGrantTypes:              true,
	FieldRedirectURIs:            true,
	FieldPostLogoutRedirectURIs:  true,
	FieldTrustedURIPrefixes:      true,
	FieldScope:                   true,
	FieldPreauthorizedScope:      true,
	FieldSubjectType:             true,
	FieldTokenEndpointAuthMethod: true,
	FieldFunctionalUserGroupIDs:  true,
	"jwks_uri":                   true,
	"jwks":                       true,
	FieldClientIDIssuedAt:        true,
	FieldClientSecretExpiresAt:   true,
	FieldRegistrationClientURI:   true,
}

// ClientRegistrationErrorResponse implements
// https://www.rfc-editor.org/rfc/rfc7591#section-3.2.2
// 3.2.2. Client Registration Error Response.
type ClientRegistrationErrorResponse struct {
	Error            registrationErrorCode `json:"error"`
	ErrorDescription string                `json:"error_description,omitempty"`
}

// ClientReadRequest implements
// https://www.rfc-editor.org/rfc/rfc7592.html#section-2.1
// 2.1 Client Read Request.
type ClientReadRequest struct {
	ClientID string `schema:"client_id"`
}

// ClientDeleteRequest implements
// https://www.rfc-editor.org/rfc/rfc7592.html#section-2.3
// 2.3 Client Delete Request.
type ClientDeleteRequest struct {
	ClientID string `schema:"client_id"`
}
