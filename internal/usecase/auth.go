package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitdoze/bitbuddies/internal/entity"
)

type userRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*entity.User, error)
}

// AuthUseCase resolves callers forwarded by the identity provider against the
// users table.
type AuthUseCase struct {
	userRepo userRepository
}

func NewAuthUseCase(userRepo userRepository) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo}
}

// Authenticate returns the user behind externalID. Unknown and empty ids yield
// entity.ErrUnauthorized.
func (uc *AuthUseCase) Authenticate(ctx context.Context, externalID string) (*entity.User, error) {
	const op = "usecase.AuthUseCase.Authenticate"

	if externalID == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrUnauthorized)
	}

	user, err := uc.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUnauthorized)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return user, nil
}

// AuthorizeAdmin is Authenticate plus the admin role check.
func (uc *AuthUseCase) AuthorizeAdmin(ctx context.Context, externalID string) (*entity.User, error) {
	const op = "usecase.AuthUseCase.AuthorizeAdmin"

	user, err := uc.Authenticate(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrForbidden)
	}

	return user, nil
}
