package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
	authService "github.com/allisson/medgate/internal/auth/service"
	"github.com/allisson/medgate/internal/config"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	config        *config.Config
	userRepo      UserRepository
	sessionRepo   SessionRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
	dummyHash     string
}

// Login verifies the presented credentials and issues a session token.
//
// Security notes:
//   - Returns ErrInvalidCredentials for both unknown usernames and wrong
//     secrets to prevent account enumeration.
//   - An unknown username still pays for a full hash comparison (against a
//     throwaway hash) so response timing does not reveal whether the
//     username exists.
//   - The active check runs after the secret check, so a deactivated
//     account cannot be probed without knowing its secret.
//   - The plain token is returned once; only its SHA-256 hash is stored.
func (a *authUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	user, err := a.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			// Burn the same hashing cost as a real comparison.
			a.secretService.CompareSecret(input.Secret, a.dummyHash)
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.secretService.CompareSecret(input.Secret, user.SecretHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, authDomain.ErrUserInactive
	}

	plainToken, tokenHash, err := a.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &authDomain.Session{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		UserID:    user.ID,
		ExpiresAt: now.Add(a.config.SessionExpiration),
		RevokedAt: nil,
		CreatedAt: now,
	}

	if err := a.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &authDomain.LoginOutput{
		User:       user,
		PlainToken: plainToken,
		ExpiresAt:  session.ExpiresAt,
	}, nil
}

// Authenticate resolves a session token hash to its user.
//
// Returns ErrInvalidCredentials for unknown, expired, or revoked sessions
// so callers cannot distinguish the cases, and ErrUserInactive when the
// session is valid but the user has since been deactivated.
func (a *authUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error) {
	session, err := a.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrSessionNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !session.IsValid(time.Now().UTC()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	user, err := a.userRepo.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, authDomain.ErrUserInactive
	}

	return user, nil
}

// Logout revokes the session matching the token hash. Idempotent: revoking
// an unknown session returns nil so repeated logouts succeed.
func (a *authUseCase) Logout(ctx context.Context, tokenHash string) error {
	err := a.sessionRepo.Revoke(ctx, tokenHash, time.Now().UTC())
	if errors.Is(err, authDomain.ErrSessionNotFound) {
		return nil
	}
	return err
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	config *config.Config,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) (AuthUseCase, error) {
	// Precompute a hash to compare against for unknown usernames.
	_, dummyHash, err := secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	return &authUseCase{
		config:        config,
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		secretService: secretService,
		tokenService:  tokenService,
		dummyHash:     dummyHash,
	}, nil
}
