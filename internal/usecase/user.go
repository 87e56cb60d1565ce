package usecase

import (
	"context"
	"fmt"

	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/entity"
)

// UserUseCase covers the administrative operations over users: listing,
// removal and credential rotation. User creation happens out of band.
type UserUseCase struct {
	users userRepository
}

func NewUserUseCase(users userRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// List returns a filtered page of users. The search term matches username
// and email substrings.
func (uc *UserUseCase) List(ctx context.Context, params entity.ListParams) (*entity.UserPage, error) {
	const op = "usecase.UserUseCase.List"

	page, err := uc.users.List(ctx, params.Normalize())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list users: %w", op, err)
	}

	return page, nil
}

// Delete removes a user by id.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	const op = "usecase.UserUseCase.Delete"

	if err := uc.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete user: %w", op, err)
	}

	return nil
}

// RotateAPIKey replaces a user's API key with a fresh one and returns it.
// The old key stops working immediately.
func (uc *UserUseCase) RotateAPIKey(ctx context.Context, id int64) (string, error) {
	const op = "usecase.UserUseCase.RotateAPIKey"

	apiKey, err := auth.GenerateAPIKey()
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate api key: %w", op, err)
	}

	if err := uc.users.SetAPIKey(ctx, id, apiKey); err != nil {
		return "", fmt.Errorf("%s: failed to persist api key: %w", op, err)
	}

	return apiKey, nil
}
