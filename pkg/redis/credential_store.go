package redis

import (
	"context"
	"errors"
	"time"
)

const revokedKeyPrefix = "revoked:"

var (
	setCredentialValue = Set
	credentialExists   = Exists
)

// CredentialStore tracks revoked account credentials. A revoked uid is
// rejected by the auth middleware until the marker expires.
type CredentialStore struct {
	ttl time.Duration
}

// NewCredentialStore keeps revocation markers for ttl; zero keeps them forever.
func NewCredentialStore(ttl time.Duration) *CredentialStore {
	return &CredentialStore{ttl: ttl}
}

// Revoke marks uid as revoked.
func (s *CredentialStore) Revoke(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.New("uid is required")
	}
	return setCredentialValue(ctx, revokedKeyPrefix+uid, time.Now().UTC().Format(time.RFC3339), s.ttl)
}

// IsRevoked reports whether uid has been revoked.
func (s *CredentialStore) IsRevoked(ctx context.Context, uid string) (bool, error) {
	return credentialExists(ctx, revokedKeyPrefix+uid)
}
