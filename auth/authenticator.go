package auth

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"microblog/models"
	"microblog/repositories"
)

var (
	ErrEmailTaken         = errors.New("email address already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Authenticator registers users and checks their credentials.
type Authenticator struct {
	users repositories.UserRepository
}

func NewAuthenticator(users repositories.UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

// Register creates a user when both email and username are unused.
func (a *Authenticator) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	if err := a.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := a.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repositories.ErrDuplicateEntry) {
			return nil, err
		}
		// Lost a race with a concurrent registration; find out which field.
		logCtx.Warn("Registration hit a unique constraint")
		if availErr := a.checkAvailable(ctx, username, email); availErr != nil {
			return nil, availErr
		}
		return nil, err
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

func (a *Authenticator) checkAvailable(ctx context.Context, username, email string) error {
	taken, err := a.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	taken, err = a.users.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	return nil
}

// Authenticate returns the user owning email when password matches.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		logrus.WithField("email", email).Warn("Login attempt failed: unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		logrus.WithField("user_id", user.ID).Warn("Login attempt failed: invalid password")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
