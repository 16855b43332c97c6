package op

import (
	"net/url"
	"strings"

	"github.com/idpkit/clientreg/pkg/oidc"
	str "github.com/idpkit/clientreg/pkg/strings"
)

// SupportedValues are the value sets a ClientValidator accepts for the
// enumerated client metadata fields. Servers inject their own sets to widen
// or narrow what clients may register.
type SupportedValues struct {
	ResponseTypes []oidc.ResponseType
	GrantTypes    []oidc.GrantType
	AuthMethods   []oidc.AuthMethod
	SubjectTypes  []oidc.SubjectType
}

// DefaultSupportedValues returns the protocol-mandated value sets.
func DefaultSupportedValues() SupportedValues {
	return SupportedValues{
		ResponseTypes: oidc.DefaultSupportedResponseTypes,
		GrantTypes:    oidc.DefaultSupportedGrantTypes,
		AuthMethods:   oidc.DefaultSupportedAuthMethods,
		SubjectTypes:  oidc.DefaultSupportedSubjectTypes,
	}
}

type ValidatorOption func(*ClientValidator)

// WithSupportedValues replaces the default value sets of a validator.
func WithSupportedValues(supported SupportedValues) ValidatorOption {
	return func(v *ClientValidator) {
		v.supported = supported
	}
}

// ClientValidator validates a client metadata record for registration,
// following RFC 7591, section 3.1 and the OIDC client registration spec.
//
// The validator binds to a deep copy of the record at construction, so the
// caller's record is never mutated. All entry points operate on and return
// that working copy: ValidateCreateUpdate for the strict create/update path,
// SetDefaultsForOmitted for filling protocol defaults, ValidateOrDefault for
// sanitizing records of unknown provenance.
type ClientValidator struct {
	client    *oidc.ClientMetadata
	supported SupportedValues
}

// NewClientValidator binds a validator to a deep copy of client.
// The client name is percent-decoded best-effort; a name that is not valid
// percent-encoding is kept as-is.
func NewClientValidator(client *oidc.ClientMetadata, opts ...ValidatorOption) *ClientValidator {
	v := &ClientValidator{
		client:    client.Clone(),
		supported: DefaultSupportedValues(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if name, err := url.QueryUnescape(v.client.ClientName); err == nil {
		v.client.ClientName = name
	}
	return v
}

// metadataRule is one entry of the validation sequence. check reports the
// violation, if any; relax substitutes the documented default for the
// offending field instead.
type metadataRule struct {
	name  string
	check func() *oidc.RegistrationError
	relax func()
}

// rules returns the validation sequence. Order is part of the contract:
// grant types are checked before the response/grant cross-match, and the
// redirect URI rule reads the application type settled by the first rule.
func (v *ClientValidator) rules() []metadataRule {
	return []metadataRule{
		{
			name:  oidc.FieldApplicationType,
			check: v.checkApplicationType,
			relax: func() { v.client.ApplicationType = oidc.ApplicationTypeWeb },
		},
		{
			name:  oidc.FieldResponseTypes,
			check: v.checkResponseTypes,
			relax: func() { v.client.ResponseTypes = []oidc.ResponseType{} },
		},
		{
			name:  oidc.FieldGrantTypes,
			check: v.checkGrantTypes,
			relax: func() { v.client.GrantTypes = []oidc.GrantType{} },
		},
		{
			name:  "grant_response_match",
			check: v.checkGrantResponseMatch,
			relax: func() {
				v.client.ResponseTypes = []oidc.ResponseType{oidc.ResponseTypeCode}
				v.client.GrantTypes = []oidc.GrantType{oidc.GrantTypeCode}
			},
		},
		{
			name:  oidc.FieldRedirectURIs,
			check: v.checkRedirectURIs,
			relax: func() { v.client.RedirectURIs = []string{} },
		},
		{
			name:  oidc.FieldScope,
			check: v.checkScope,
			relax: func() { v.client.Scope = "" },
		},
		{
			name:  oidc.FieldSubjectType,
			check: v.checkSubjectType,
			relax: func() { v.client.SubjectType = "" },
		},
		{
			name:  oidc.FieldTokenEndpointAuthMethod,
			check: v.checkAuthMethod,
			relax: func() { v.client.TokenEndpointAuthMethod = oidc.AuthMethodBasic },
		},
		{
			name:  oidc.FieldPostLogoutRedirectURIs,
			check: v.checkPostLogoutRedirectURIs,
			relax: func() { v.client.PostLogoutRedirectURIs = []string{} },
		},
		{
			name:  oidc.FieldPreauthorizedScope,
			check: v.checkPreauthorizedScope,
			relax: func() { v.client.PreauthorizedScope = "" },
		},
		{
			name:  oidc.FieldTrustedURIPrefixes,
			check: v.checkTrustedURIPrefixes,
			relax: func() { v.client.TrustedURIPrefixes = []string{} },
		},
		{
			name:  oidc.FieldFunctionalUserGroupIDs,
			check: v.checkFunctionalUserGroupIDs,
			relax: func() { v.client.FunctionalUserGroupIDs = []string{} },
		},
		{
			name:  "output_parameters",
			check: v.checkOutputParameters,
			relax: func() {
				v.client.ClientIDIssuedAt = 0
				v.client.ClientSecretExpiresAt = 0
				v.client.RegistrationClientURI = ""
			},
		},
	}
}

// ValidateCreateUpdate runs the full validation sequence and fails on the
// first violation. On success it returns the normalized working copy: nil
// URI lists replaced by empty ones, trusted URI prefixes slash-terminated,
// the client name percent-decoded.
func (v *ClientValidator) ValidateCreateUpdate() (*oidc.ClientMetadata, error) {
	for _, rule := range v.rules() {
		if err := rule.check(); err != nil {
			return nil, err
		}
	}
	return v.client, nil
}

// ValidateOrDefault runs the full validation sequence but never fails:
// each violated rule has the documented default substituted for the
// offending field instead. The result always passes ValidateCreateUpdate.
func (v *ClientValidator) ValidateOrDefault() *oidc.ClientMetadata {
	for _, rule := range v.rules() {
		if err := rule.check(); err != nil {
			rule.relax()
		}
	}
	return v.client
}

// SetDefaultsForOmitted fills the registration defaults of RFC 7591 and the
// OIDC client registration spec for fields the record omits. It never fails
// and performs no validation; present values are kept even when invalid.
func (v *ClientValidator) SetDefaultsForOmitted() *oidc.ClientMetadata {
	if v.client.ApplicationType == "" {
		v.client.ApplicationType = oidc.ApplicationTypeWeb
	}
	if len(v.client.ResponseTypes) == 0 {
		v.client.ResponseTypes = []oidc.ResponseType{oidc.ResponseTypeCode}
	}
	if len(v.client.GrantTypes) == 0 {
		v.client.GrantTypes = []oidc.GrantType{oidc.GrantTypeCode}
	}
	if v.client.TokenEndpointAuthMethod == "" {
		v.client.TokenEndpointAuthMethod = oidc.AuthMethodBasic
	}
	if v.client.RedirectURIs == nil {
		v.client.RedirectURIs = []string{}
	}
	if v.client.PostLogoutRedirectURIs == nil {
		v.client.PostLogoutRedirectURIs = []string{}
	}
	if v.client.TrustedURIPrefixes == nil {
		v.client.TrustedURIPrefixes = []string{}
	}
	if v.client.FunctionalUserGroupIDs == nil {
		v.client.FunctionalUserGroupIDs = []string{}
	}
	return v.client
}

func (v *ClientValidator) checkApplicationType() *oidc.RegistrationError {
	switch v.client.ApplicationType {
	case "", oidc.ApplicationTypeWeb, oidc.ApplicationTypeNative:
		return nil
	}
	return oidc.ErrUnsupportedValue(oidc.FieldApplicationType, string(v.client.ApplicationType))
}

func (v *ClientValidator) checkResponseTypes() *oidc.RegistrationError {
	seen := make(map[oidc.ResponseType]struct{}, len(v.client.ResponseTypes))
	for _, responseType := range v.client.ResponseTypes {
		if !str.Contains(v.supported.ResponseTypes, responseType) {
			return oidc.ErrUnsupportedValue(oidc.FieldResponseTypes, string(responseType))
		}
		if _, ok := seen[responseType]; ok {
			return oidc.ErrDuplicateValue(oidc.FieldResponseTypes, string(responseType))
		}
		seen[responseType] = struct{}{}
	}
	return nil
}

func (v *ClientValidator) checkGrantTypes() *oidc.RegistrationError {
	seen := make(map[oidc.GrantType]struct{}, len(v.client.GrantTypes))
	for _, grantType := range v.client.GrantTypes {
		if !str.Contains(v.supported.GrantTypes, grantType) {
			return oidc.ErrUnsupportedValue(oidc.FieldGrantTypes, string(grantType))
		}
		if _, ok := seen[grantType]; ok {
			return oidc.ErrDuplicateValue(oidc.FieldGrantTypes, string(grantType))
		}
		seen[grantType] = struct{}{}
	}
	return nil
}

// checkGrantResponseMatch enforces that every requested response type is
// backed by its grant type: code needs authorization_code, the hybrid
// id_token/token combinations need implicit. Bare id_token and token have no
// grant requirement here.
func (v *ClientValidator) checkGrantResponseMatch() *oidc.RegistrationError {
	for _, responseType := range v.client.ResponseTypes {
		var required oidc.GrantType
		switch responseType {
		case oidc.ResponseTypeCode:
			required = oidc.GrantTypeCode
		case oidc.ResponseTypeIDTokenToken, oidc.ResponseTypeTokenIDToken:
			required = oidc.GrantTypeImplicit
		default:
			continue
		}
		if !str.Contains(v.client.GrantTypes, required) {
			return oidc.ErrGrantResponseMismatch(string(responseType), string(required))
		}
	}
	return nil
}

func (v *ClientValidator) checkRedirectURIs() *oidc.RegistrationError {
	if v.client.RedirectURIs == nil {
		v.client.RedirectURIs = []string{}
		return nil
	}
	// Native clients may register relative or custom-scheme URIs;
	// web clients (and clients of unsettled type) may not.
	requireAbsolute := v.client.ApplicationType == oidc.ApplicationTypeWeb ||
		v.client.ApplicationType == ""
	return checkURIList(oidc.FieldRedirectURIs, v.client.RedirectURIs, requireAbsolute)
}

// checkScope is an intentionally inert stage: scope values are opaque to
// registration and reduced by the runtime during authorization.
// TODO: reject scope values outside the RFC 6749 section 3.3 character set.
func (v *ClientValidator) checkScope() *oidc.RegistrationError {
	return nil
}

func (v *ClientValidator) checkSubjectType() *oidc.RegistrationError {
	if v.client.SubjectType == "" || str.Contains(v.supported.SubjectTypes, v.client.SubjectType) {
		return nil
	}
	return oidc.ErrUnsupportedValue(oidc.FieldSubjectType, string(v.client.SubjectType))
}

func (v *ClientValidator) checkAuthMethod() *oidc.RegistrationError {
	if v.client.TokenEndpointAuthMethod == "" || str.Contains(v.supported.AuthMethods, v.client.TokenEndpointAuthMethod) {
		return nil
	}
	return oidc.ErrUnsupportedValue(oidc.FieldTokenEndpointAuthMethod, string(v.client.TokenEndpointAuthMethod))
}

func (v *ClientValidator) checkPostLogoutRedirectURIs() *oidc.RegistrationError {
	if v.client.PostLogoutRedirectURIs == nil {
		v.client.PostLogoutRedirectURIs = []string{}
		return nil
	}
	return checkURIList(oidc.FieldPostLogoutRedirectURIs, v.client.PostLogoutRedirectURIs, true)
}

// checkPreauthorizedScope is an intentionally inert stage: preauthorized
// scopes are not required to be a subset of the registered scopes, the
// runtime reduces them downstream.
func (v *ClientValidator) checkPreauthorizedScope() *oidc.RegistrationError {
	return nil
}

func (v *ClientValidator) checkTrustedURIPrefixes() *oidc.RegistrationError {
	if v.client.TrustedURIPrefixes == nil {
		v.client.TrustedURIPrefixes = []string{}
		return nil
	}
	if err := checkURIList(oidc.FieldTrustedURIPrefixes, v.client.TrustedURIPrefixes, true); err != nil {
		return err
	}
	// Prefixes match on path segment boundaries, so they are stored
	// slash-terminated.
	for i, prefix := range v.client.TrustedURIPrefixes {
		v.client.TrustedURIPrefixes[i] = slashTerminated(prefix)
	}
	return nil
}

func (v *ClientValidator) checkFunctionalUserGroupIDs() *oidc.RegistrationError {
	if v.client.FunctionalUserGroupIDs == nil {
		v.client.FunctionalUserGroupIDs = []string{}
		return nil
	}
	if dup, ok := str.Duplicate(v.client.FunctionalUserGroupIDs); ok {
		return oidc.ErrDuplicateValue(oidc.FieldFunctionalUserGroupIDs, dup)
	}
	return nil
}

func (v *ClientValidator) checkOutputParameters() *oidc.RegistrationError {
	if v.client.ClientIDIssuedAt != 0 {
		return oidc.ErrOutputParameterNotAllowed(oidc.FieldClientIDIssuedAt)
	}
	if v.client.ClientSecretExpiresAt != 0 {
		return oidc.ErrOutputParameterNotAllowed(oidc.FieldClientSecretExpiresAt)
	}
	if v.client.RegistrationClientURI != "" {
		return oidc.ErrOutputParameterNotAllowed(oidc.FieldRegistrationClientURI)
	}
	return nil
}

// checkURIList validates each element in order: parse, optionally require an
// absolute URI, reject exact duplicates. The first offending element
// determines the error.
func checkURIList(field string, uris []string, requireAbsolute bool) *oidc.RegistrationError {
	seen := make(map[string]struct{}, len(uris))
	for _, raw := range uris {
		uri, err := url.Parse(raw)
		if err != nil {
			return oidc.ErrMalformedURI(field, raw).WithParent(err)
		}
		if requireAbsolute && !uri.IsAbs() {
			return oidc.ErrNotAbsoluteURI(field, raw)
		}
		if _, ok := seen[raw]; ok {
			return oidc.ErrDuplicateValue(field, raw)
		}
		seen[raw] = struct{}{}
	}
	return nil
}

func slashTerminated(uri string) string {
	if strings.HasSuffix(uri, "/") {
		return uri
	}
	return uri + "/"
}
