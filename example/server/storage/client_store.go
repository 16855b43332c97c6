// Package storage implements an in-memory client registration storage.
// It is used for the example server and the integration tests; a real
// deployment replaces it with a database-backed implementation.
package storage

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idpkit/clientreg/pkg/oidc"
	"github.com/idpkit/clientreg/pkg/op"
)

// registrationAccessTokenField is the response member of RFC 7592, section 3
// carrying the token that authorizes later management requests.
const registrationAccessTokenField = "registration_access_token"

type ClientStore struct {
	mu      sync.RWMutex
	clients map[string]*oidc.ClientMetadata
	tokens  map[string]string
}

func NewClientStore() *ClientStore {
	return &ClientStore{
		clients: make(map[string]*oidc.ClientMetadata),
		tokens:  make(map[string]string),
	}
}

// RegisterClient assigns a fresh client ID, a secret when the auth method
// requires one, and a registration access token returned in the
// registration_access_token response member.
func (s *ClientStore) RegisterClient(ctx context.Context, client *oidc.ClientMetadata) (*oidc.ClientMetadata, error) {
	stored := client.Clone()
	stored.ClientID = uuid.NewString()
	stored.ClientIDIssuedAt = time.Now().Unix()
	if stored.TokenEndpointAuthMethod != oidc.AuthMethodNone {
		secret, err := newSecret()
		if err != nil {
			return nil, fmt.Errorf("generate client secret: %w", err)
		}
		stored.ClientSecret = secret
		// secrets issued by this store do not expire
		stored.ClientSecretExpiresAt = 0
	}
	token, err := newSecret()
	if err != nil {
		return nil, fmt.Errorf("generate registration access token: %w", err)
	}
	if stored.ExtraParameters == nil {
		stored.ExtraParameters = make(map[string]any)
	}
	stored.ExtraParameters[registrationAccessTokenField] = token

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[stored.ClientID] = stored
	s.tokens[stored.ClientID] = token
	return stored.Clone(), nil
}

func (s *ClientStore) ReadClient(ctx context.Context, clientID string) (*oidc.ClientMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[clientID]
	if !ok {
		return nil, op.ErrClientNotFound
	}
	return client.Clone(), nil
}

// UpdateClient replaces the stored metadata but keeps the server-assigned
// identity: client ID, secret, issue time and registration access token.
func (s *ClientStore) UpdateClient(ctx context.Context, clientID string, client *oidc.ClientMetadata) (*oidc.ClientMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.clients[clientID]
	if !ok {
		return nil, op.ErrClientNotFound
	}
	stored := client.Clone()
	stored.ClientID = current.ClientID
	stored.ClientSecret = current.ClientSecret
	stored.ClientIDIssuedAt = current.ClientIDIssuedAt
	stored.ClientSecretExpiresAt = current.ClientSecretExpiresAt
	if token, ok := current.ExtraParameters[registrationAccessTokenField]; ok {
		if stored.ExtraParameters == nil {
			stored.ExtraParameters = make(map[string]any)
		}
		stored.ExtraParameters[registrationAccessTokenField] = token
	}
	s.clients[clientID] = stored
	return stored.Clone(), nil
}

func (s *ClientStore) DeleteClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return op.ErrClientNotFound
	}
	delete(s.clients, clientID)
	delete(s.tokens, clientID)
	return nil
}

// AuthorizeManagement implements the op.ManagementAuthorizer against the
// registration access tokens issued by this store.
func (s *ClientStore) AuthorizeManagement(ctx context.Context, clientID, registrationAccessToken string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want, ok := s.tokens[clientID]
	if !ok || subtle.ConstantTimeCompare([]byte(want), []byte(registrationAccessToken)) != 1 {
		return fmt.Errorf("%w: registration access token not accepted", op.ErrUnauthorized)
	}
	return nil
}

func newSecret() (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
