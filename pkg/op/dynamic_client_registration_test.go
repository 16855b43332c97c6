package op_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idpkit/clientreg/example/server/storage"
	"github.com/idpkit/clientreg/pkg/oidc"
	"github.com/idpkit/clientreg/pkg/op"
)

func newTestServer(t *testing.T, opts ...op.RegistrarOption) (*httptest.Server, *storage.ClientStore) {
	t.Helper()
	store := storage.NewClientStore()
	server := httptest.NewServer(op.NewRegistrar(store, opts...).Router())
	t.Cleanup(server.Close)
	return server, store
}

func registerTestClient(t *testing.T, server *httptest.Server, body string) *oidc.ClientMetadata {
	t.Helper()
	resp, err := http.Post(server.URL+"/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res := new(oidc.ClientMetadata)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(res))
	return res
}

func TestRegistrar_clientRegistration(t *testing.T) {
	server, _ := newTestServer(t)

	res := registerTestClient(t, server, `{
		"client_name": "My%20App",
		"redirect_uris": ["https://client.example.org/callback"],
		"trusted_uri_prefixes": ["https://client.example.org/api"]
	}`)

	assert.NotEmpty(t, res.ClientID)
	assert.NotEmpty(t, res.ClientSecret)
	assert.NotZero(t, res.ClientIDIssuedAt)
	assert.Equal(t, "My App", res.ClientName)
	assert.Equal(t, oidc.ApplicationTypeWeb, res.ApplicationType)
	assert.Equal(t, []oidc.ResponseType{oidc.ResponseTypeCode}, res.ResponseTypes)
	assert.Equal(t, []oidc.GrantType{oidc.GrantTypeCode}, res.GrantTypes)
	assert.Equal(t, oidc.AuthMethodBasic, res.TokenEndpointAuthMethod)
	assert.Equal(t, []string{"https://client.example.org/api/"}, res.TrustedURIPrefixes)
	assert.Equal(t, server.URL+"/"+res.ClientID, res.RegistrationClientURI)
	assert.NotEmpty(t, res.ExtraParameters["registration_access_token"])
}

func TestRegistrar_clientRegistration_publicClient(t *testing.T) {
	server, _ := newTestServer(t)

	res := registerTestClient(t, server, `{
		"application_type": "native",
		"token_endpoint_auth_method": "none",
		"redirect_uris": ["myapp://auth"]
	}`)

	assert.NotEmpty(t, res.ClientID)
	assert.Empty(t, res.ClientSecret)
}

func TestRegistrar_clientRegistration_errorResponses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid metadata",
			body:       `{"subject_type": "pairwise"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_client_metadata",
		},
		{
			name:       "invalid redirect uri",
			body:       `{"redirect_uris": ["/callback"]}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_redirect_uri",
		},
		{
			name:       "output parameter supplied",
			body:       `{"client_secret_expires_at": 12345}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_client_metadata",
		},
		{
			name:       "body not json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_client_metadata",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t)

			resp, err := http.Post(server.URL+"/", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			errRes := new(oidc.ClientRegistrationErrorResponse)
			require.NoError(t, json.NewDecoder(resp.Body).Decode(errRes))
			assert.Equal(t, tt.wantError, string(errRes.Error))
			assert.NotEmpty(t, errRes.ErrorDescription)
		})
	}
}

func TestRegistrar_clientRead(t *testing.T) {
	server, _ := newTestServer(t)
	registered := registerTestClient(t, server, `{"redirect_uris": ["https://client.example.org/callback"]}`)

	resp, err := http.Get(server.URL + "/" + registered.ClientID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := new(oidc.ClientMetadata)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(res))
	assert.Equal(t, registered.ClientID, res.ClientID)
	assert.Equal(t, registered.RedirectURIs, res.RedirectURIs)
}

func TestRegistrar_clientRead_notFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/no-such-client")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegistrar_clientUpdate(t *testing.T) {
	server, _ := newTestServer(t)
	registered := registerTestClient(t, server, `{"redirect_uris": ["https://client.example.org/callback"]}`)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/"+registered.ClientID,
		strings.NewReader(`{"redirect_uris": ["https://client.example.org/other"], "client_name": "Renamed"}`))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := new(oidc.ClientMetadata)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(res))
	assert.Equal(t, registered.ClientID, res.ClientID)
	assert.Equal(t, registered.ClientIDIssuedAt, res.ClientIDIssuedAt)
	assert.Equal(t, "Renamed", res.ClientName)
	assert.Equal(t, []string{"https://client.example.org/other"}, res.RedirectURIs)
}

func TestRegistrar_clientUpdate_invalidMetadata(t *testing.T) {
	server, _ := newTestServer(t)
	registered := registerTestClient(t, server, `{"redirect_uris": ["https://client.example.org/callback"]}`)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/"+registered.ClientID,
		strings.NewReader(`{"redirect_uris": ["http://["]}`))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errRes := new(oidc.ClientRegistrationErrorResponse)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(errRes))
	assert.Equal(t, "invalid_redirect_uri", string(errRes.Error))
}

func TestRegistrar_clientDelete(t *testing.T) {
	server, _ := newTestServer(t)
	registered := registerTestClient(t, server, `{"redirect_uris": ["https://client.example.org/callback"]}`)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/"+registered.ClientID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	readResp, err := http.Get(server.URL + "/" + registered.ClientID)
	require.NoError(t, err)
	readResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, readResp.StatusCode)
}

func TestRegistrar_managementAuthorization(t *testing.T) {
	store := storage.NewClientStore()
	server := httptest.NewServer(op.NewRegistrar(store,
		op.WithManagementAuthorizer(store.AuthorizeManagement),
	).Router())
	t.Cleanup(server.Close)

	registered := registerTestClient(t, server, `{"redirect_uris": ["https://client.example.org/callback"]}`)
	token, _ := registered.ExtraParameters["registration_access_token"].(string)
	require.NotEmpty(t, token)

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/" + registered.ClientID)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/"+registered.ClientID, nil)
		require.NoError(t, err)
		req.Header.Set("authorization", "Bearer wrong")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/"+registered.ClientID, nil)
		require.NoError(t, err)
		req.Header.Set("authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRegistrar_registrationClientURIBehindProxy(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/",
		strings.NewReader(`{"redirect_uris": ["https://client.example.org/callback"]}`))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("forwarded", "for=192.0.2.60; proto=https; host=idp.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res := new(oidc.ClientMetadata)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(res))
	assert.Equal(t, "https://idp.example.com/"+res.ClientID, res.RegistrationClientURI)
}
