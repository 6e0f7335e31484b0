package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrFirstNameRequired  = errors.New("first name is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrPermissionDenied   = errors.New("not enough permissions")
	ErrUserCreateFailed   = errors.New("create user failed")
	ErrUserUpdateFailed   = errors.New("update user failed")
	ErrUserDeleteFailed   = errors.New("delete user failed")
	ErrPasswordHashFailed = errors.New("hash password failed")
)

type UserRepository interface {
	FindByID(userID uint) (models.User, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	List() ([]models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
	DeleteAccountAndRelatedData(userID uint) error
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsStaff   bool
}

// UserPatch carries optional changes; nil fields are left untouched.
type UserPatch struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	IsStaff   *bool
	Disabled  *bool
}

type UserService struct {
	users    UserRepository
	location *time.Location
	now      func() time.Time
}

func NewUserService(users UserRepository, location *time.Location) *UserService {
	if location == nil {
		location = time.UTC
	}
	return &UserService{users: users, location: location, now: time.Now}
}

func (service *UserService) Register(input RegisterInput) (models.User, error) {
	email := NormalizeAuthEmail(input.Email)
	if email == "" {
		return models.User{}, ErrInvalidEmail
	}
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return models.User{}, ErrFirstNameRequired
	}
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: passwordHash,
		IsStaff:      input.IsStaff,
		RegisteredAt: service.now().In(service.location),
	}
	if err := service.users.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}
	return user, nil
}

func (service *UserService) List() ([]models.User, error) {
	return service.users.List()
}

func (service *UserService) Get(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (service *UserService) Update(actor *models.User, userID uint, patch UserPatch) (models.User, error) {
	if !CanActOnUser(actor, userID) {
		return models.User{}, ErrPermissionDenied
	}
	if (patch.IsStaff != nil || patch.Disabled != nil) && !IsStaffUser(actor) {
		return models.User{}, ErrPermissionDenied
	}

	user, err := service.Get(userID)
	if err != nil {
		return models.User{}, err
	}

	if patch.Email != nil {
		email := NormalizeAuthEmail(*patch.Email)
		if email == "" {
			return models.User{}, ErrInvalidEmail
		}
		if email != user.Email {
			exists, err := service.users.ExistsByNormalizedEmail(email)
			if err != nil {
				return models.User{}, fmt.Errorf("%w: %v", ErrUserUpdateFailed, err)
			}
			if exists {
				return models.User{}, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if patch.FirstName != nil {
		firstName := strings.TrimSpace(*patch.FirstName)
		if firstName == "" {
			return models.User{}, ErrFirstNameRequired
		}
		user.FirstName = firstName
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Password != nil {
		if err := ValidatePasswordStrength(*patch.Password); err != nil {
			return models.User{}, err
		}
		passwordHash, err := hashPassword(*patch.Password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = passwordHash
	}
	if patch.IsStaff != nil {
		user.IsStaff = *patch.IsStaff
	}
	if patch.Disabled != nil {
		user.Disabled = *patch.Disabled
	}

	if err := service.users.Save(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserUpdateFailed, err)
	}
	return user, nil
}

func (service *UserService) Delete(actor *models.User, userID uint) error {
	if !CanActOnUser(actor, userID) {
		return ErrPermissionDenied
	}
	if err := service.users.DeleteAccountAndRelatedData(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrUserDeleteFailed, err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}
	return string(hash), nil
}
