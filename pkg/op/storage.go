package op

import (
	"context"
	"errors"

	"github.com/idpkit/clientreg/pkg/oidc"
)

// ErrClientNotFound is returned by a ClientRegistrationStorage when no client
// is registered under the requested ID.
var ErrClientNotFound = errors.New("client not found")

// ClientRegistrationStorage persists dynamically registered clients.
// Implementations receive validated, normalized metadata and are responsible
// for assigning the client ID, secret and the other output parameters.
type ClientRegistrationStorage interface {
	// RegisterClient stores a new client and returns the stored record,
	// completed with client_id, client_id_issued_at and, depending on the
	// token endpoint auth method, client_secret.
	RegisterClient(ctx context.Context, client *oidc.ClientMetadata) (*oidc.ClientMetadata, error)

	// ReadClient returns the stored record, or ErrClientNotFound.
	ReadClient(ctx context.Context, clientID string) (*oidc.ClientMetadata, error)

	// UpdateClient replaces the stored record, keeping the server-assigned
	// output parameters, or returns ErrClientNotFound.
	UpdateClient(ctx context.Context, clientID string, client *oidc.ClientMetadata) (*oidc.ClientMetadata, error)

	// DeleteClient removes the stored record, or returns ErrClientNotFound.
	DeleteClient(ctx context.Context, clientID string) error
}
