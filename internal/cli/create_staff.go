package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/daybook/internal/db"
	"github.com/terraincognita07/daybook/internal/services"
)

var errPasswordMismatch = errors.New("passwords do not match")

// PasswordReader reads one secret line from the terminal.
type PasswordReader func(prompt string) (string, error)

// TerminalPasswordReader prompts on out and reads from stdin without echo.
func TerminalPasswordReader(out io.Writer) PasswordReader {
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		value, err := readPasswordNoEcho(os.Stdin)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(value), nil
	}
}

type CreateStaffInput struct {
	Email     string
	FirstName string
	LastName  string
}

// RunCreateStaffCommand registers a staff account. The password is asked
// twice through readPassword.
func RunCreateStaffCommand(cfg db.Config, input CreateStaffInput, readPassword PasswordReader, out io.Writer) error {
	email, err := normalizeCommandEmail(input.Email)
	if err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirmation, err := readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirmation {
		return errPasswordMismatch
	}

	database, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		_ = db.Close(database)
	}()

	userService := services.NewUserService(db.NewUserRepository(database), nil)
	user, err := userService.Register(services.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsStaff:   true,
	})
	if err != nil {
		return fmt.Errorf("create staff user: %w", err)
	}

	fmt.Fprintf(out, "Staff user %s created with id %d\n", user.Email, user.ID)
	return nil
}
