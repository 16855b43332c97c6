package oidc

// ResponseType is an OAuth 2.0 / OIDC authorization response type
// a client may request at the authorization endpoint.
type ResponseType string

const (
	// ResponseTypeCode for the Authorization Code Flow returning a code from the Authorization Server
	ResponseTypeCode ResponseType = "code"

	// ResponseTypeToken for the OAuth 2.0 Implicit Grant returning an access token
	ResponseTypeToken ResponseType = "token"

	// ResponseTypeIDToken for the Implicit Flow returning only an id token
	ResponseTypeIDToken ResponseType = "id_token"

	// ResponseTypeIDTokenToken for the Implicit Flow returning id and access tokens
	ResponseTypeIDTokenToken ResponseType = "id_token token"

	// ResponseTypeTokenIDToken is the token-first spelling of ResponseTypeIDTokenToken.
	// Both orderings appear in the wild and are treated as equivalent.
	ResponseTypeTokenIDToken ResponseType = "token id_token"
)

// GrantType is an OAuth 2.0 flow a client is authorized to use to obtain tokens.
type GrantType string

const (
	// GrantTypeCode defines the grant_type `authorization_code` used for the Token Request in the Authorization Code Flow
	GrantTypeCode GrantType = "authorization_code"

	// GrantTypeImplicit defines the grant_type `implicit` used in the Implicit Flow
	GrantTypeImplicit GrantType = "implicit"

	// GrantTypeRefreshToken defines the grant_type `refresh_token` used for the Token Request of the Refresh Token Flow
	GrantTypeRefreshToken GrantType = "refresh_token"

	// GrantTypeClientCredentials defines the grant_type `client_credentials` used for
	// machine-to-machine authentication
	GrantTypeClientCredentials GrantType = "client_credentials"

	// GrantTypePassword defines the grant_type `password` of the Resource Owner Password Credentials Grant
	GrantTypePassword GrantType = "password"

	// GrantTypeBearer defines the grant_type `urn:ietf:params:oauth:grant-type:jwt-bearer`
	// used for the JWT Authorization Grant (RFC 7523)
	GrantTypeBearer GrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// AuthMethod is the client authentication method at the token endpoint.
type AuthMethod string

const (
	AuthMethodBasic AuthMethod = "client_secret_basic"
	AuthMethodPost  AuthMethod = "client_secret_post"
	AuthMethodNone  AuthMethod = "none"

	// AuthMethodClientSecretJWT and AuthMethodPrivateKeyJWT are defined by
	// OIDC Dynamic Client Registration but are not accepted here; supplying
	// them fails validation.
	AuthMethodClientSecretJWT AuthMethod = "client_secret_jwt"
	AuthMethodPrivateKeyJWT   AuthMethod = "private_key_jwt"
)

// ApplicationType is the kind of client application being registered.
type ApplicationType string

const (
	// ApplicationTypeWeb is the default if application_type is omitted.
	ApplicationTypeWeb    ApplicationType = "web"
	ApplicationTypeNative ApplicationType = "native"
)

// SubjectType controls whether the same end-user identifier is shared across
// clients (`public`) or derived per client (`pairwise`).
type SubjectType string

const (
	SubjectTypePublic SubjectType = "public"

	// SubjectTypePairwise is recognized but not supported; registration of
	// pairwise clients fails validation.
	SubjectTypePairwise SubjectType = "pairwise"
)

var (
	// DefaultSupportedResponseTypes lists the response types accepted for
	// client registration when the caller injects no other set.
	DefaultSupportedResponseTypes = []ResponseType{
		ResponseTypeCode,
		ResponseTypeToken,
		ResponseTypeIDToken,
		ResponseTypeIDTokenToken,
		ResponseTypeTokenIDToken,
	}

	// DefaultSupportedGrantTypes lists the grant types accepted for client registration.
	DefaultSupportedGrantTypes = []GrantType{
		GrantTypeCode,
		GrantTypeImplicit,
		GrantTypeRefreshToken,
		GrantTypeClientCredentials,
		GrantTypePassword,
		GrantTypeBearer,
	}

	// DefaultSupportedAuthMethods lists the token endpoint authentication
	// methods accepted for client registration. The JWT based methods are
	// deliberately absent.
	DefaultSupportedAuthMethods = []AuthMethod{
		AuthMethodBasic,
		AuthMethodPost,
		AuthMethodNone,
	}

	// DefaultSupportedSubjectTypes lists the subject types accepted for
	// client registration; pairwise is deliberately absent.
	DefaultSupportedSubjectTypes = []SubjectType{
		SubjectTypePublic,
	}
)
