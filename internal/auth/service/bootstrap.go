package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/pkg/slogx"
)

var (
	ErrAlreadyBootstrapped   = errors.New("already_bootstrapped")
	ErrBootstrapDisabled     = errors.New("bootstrap_disabled")
	ErrBootstrapUnauthorized = errors.New("bootstrap_unauthorized")
)

// BootstrapService provisions the first administrator on an empty database.
// It works exactly once: as soon as any user exists, the endpoint goes dead.
type BootstrapService struct {
	Store store.Store
	Users *UserService

	// Token is the shared secret required to bootstrap. Empty disables
	// bootstrapping entirely.
	Token string
}

// IsBootstrapped reports whether any user exists yet.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for users: %w", err)
	}
	return !empty, nil
}

// Bootstrap creates the first admin account. The caller must present the
// configured bootstrap token; the initial password obeys the normal policy.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, username, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Gate on the shared secret before touching anything.
	if s.Token == "" {
		return domain.User{}, ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		return domain.User{}, ErrBootstrapUnauthorized
	}

	// 2. Only an empty database can be bootstrapped.
	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if bootstrapped {
		return domain.User{}, ErrAlreadyBootstrapped
	}

	// 3. Provision the admin. Creation audits itself with no actor; there is
	// nobody to attribute it to yet.
	u, err := s.Users.Create(ctx, "", CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("bootstrap complete", "user_id", u.ID, "username", u.Username)
	return u, nil
}
