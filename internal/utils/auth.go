package utils

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
)

const minPasswordLength = 8

func ValidateRegistration(ctx context.Context, userRepo repos.UserRepo, log *logger.Logger, user *types.User) error {
	if user == nil {
		return fmt.Errorf("no user given, cannot proceed with registration")
	}
	if user.Username == "" {
		return fmt.Errorf("a username is required to register")
	}
	if user.Email == "" {
		return fmt.Errorf("an email is required to register")
	}
	if len(user.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	usernameExists, err := userRepo.UsernameExists(ctx, nil, user.Username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if usernameExists {
		return fmt.Errorf("username is already in use")
	}
	emailExists, err := userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check user email: %w", err)
	}
	if emailExists {
		return fmt.Errorf("email is already in use")
	}
	return nil
}

func ValidateLogin(username, password string) error {
	if username == "" {
		return fmt.Errorf("username is required to login")
	}
	if password == "" {
		return fmt.Errorf("password is required to login")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func NormalizeUserFields(user *types.User) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Nation = strings.TrimSpace(user.Nation)
}
