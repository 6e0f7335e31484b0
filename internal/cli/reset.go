package cli

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/terraincognita07/daybook/internal/db"
	"github.com/terraincognita07/daybook/internal/security"
	"github.com/terraincognita07/daybook/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// RunResetPasswordCommand replaces the password of the account with a random
// one and prints it to out.
func RunResetPasswordCommand(cfg db.Config, email string, out io.Writer) error {
	normalizedEmail, err := normalizeCommandEmail(email)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		_ = db.Close(database)
	}()

	users := db.NewUserRepository(database)
	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash temporary password: %w", err)
	}
	if err := users.UpdateByID(user.ID, map[string]any{"password_hash": string(passwordHash)}); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "Ask the user to change it after signing in.")
	return nil
}

// generateTemporaryPassword draws until the result satisfies the regular
// password policy, so the user can keep it if they want to.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	for {
		password, err := security.RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidatePasswordStrength(password) == nil {
			return password, nil
		}
	}
}

func normalizeCommandEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email address: %w", err)
	}
	return email, nil
}
