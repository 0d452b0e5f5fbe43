package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
	authService "github.com/allisson/medgate/internal/auth/service"
)

// userUseCase implements UserUseCase.
type userUseCase struct {
	userRepo      UserRepository
	secretService authService.SecretService
}

// Create provisions a new user. The plain secret is hashed with Argon2id
// before storage and never persisted.
func (u *userUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateUserInput,
) (*authDomain.User, error) {
	if _, err := authDomain.ParseRole(string(input.Role)); err != nil {
		return nil, err
	}

	secretHash, err := u.secretService.HashSecret(input.PlainSecret)
	if err != nil {
		return nil, err
	}

	user := &authDomain.User{
		ID:         uuid.Must(uuid.NewV7()),
		Username:   input.Username,
		SecretHash: secretHash,
		Role:       input.Role,
		IsActive:   input.IsActive,
		CreatedAt:  time.Now().UTC(),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RotateSecret replaces a user's secret. Sessions issued before the
// rotation remain valid until they expire or are revoked.
func (u *userUseCase) RotateSecret(ctx context.Context, username string, plainSecret string) error {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	secretHash, err := u.secretService.HashSecret(plainSecret)
	if err != nil {
		return err
	}

	return u.userRepo.UpdateSecretHash(ctx, user.ID, secretHash)
}

// NewUserUseCase creates a new UserUseCase with the provided dependencies.
func NewUserUseCase(userRepo UserRepository, secretService authService.SecretService) UserUseCase {
	return &userUseCase{
		userRepo:      userRepo,
		secretService: secretService,
	}
}
