package services

import (
	"errors"

	"github.com/terraincognita07/daybook/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrUserInactive = errors.New("inactive user")

type AuthUserRepository interface {
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// reported the same way.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthCredentialsInvalid
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// ActiveUser loads the token subject and rejects disabled accounts.
func (service *AuthService) ActiveUser(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Disabled {
		return models.User{}, ErrUserInactive
	}
	return user, nil
}
