package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
)

// Principal is the authenticated caller of a request.
type Principal struct {
	User   models.User
	Claims Claims
}

type Service struct {
	users    repo.UserRepository
	tokens   *TokenIssuer
	denylist Denylist
	log      logrus.FieldLogger
}

func NewService(users repo.UserRepository, tokens *TokenIssuer, denylist Denylist, logger logrus.FieldLogger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		log:      logger,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) validate() error {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	var rules validation.Rules
	rules.Add("name", "The name field is required.", func() bool { return name != "" })
	rules.Add("name", "The name may not be greater than 255 characters.", func() bool { return utf8.RuneCountInString(name) <= 255 })
	rules.Add("email", "The email field is required.", func() bool { return email != "" })
	rules.Add("email", "The email must be a valid email address.", func() bool {
		addr, err := mail.ParseAddress(email)
		return err == nil && addr.Address == email
	})
	rules.Add("password", "The password field is required.", func() bool { return in.Password != "" })
	return rules.Validate()
}

// Register creates a user and returns it with a freshly issued token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	if err := in.validate(); err != nil {
		return models.User{}, "", err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.User{}, "", ErrUserExists
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		return models.User{}, "", fmt.Errorf("look up user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return models.User{}, "", ErrUserExists
		}
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return models.User{}, "", err
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, token, nil
}

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.WithField("user_id", user.ID).Warn("login failed: wrong password")
		return "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user. The token must be
// correctly signed, unexpired, not revoked, and its subject must still exist.
func (s *Service) Authenticate(ctx context.Context, tokenStr string) (Principal, error) {
	claims, err := s.tokens.Parse(tokenStr)
	if err != nil {
		return Principal{}, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return Principal{}, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return Principal{}, fmt.Errorf("%w: unknown subject", ErrUnauthenticated)
		}
		return Principal{}, fmt.Errorf("look up user: %w", err)
	}

	return Principal{User: user, Claims: claims}, nil
}

// Logout revokes the token described by claims until its expiry.
func (s *Service) Logout(ctx context.Context, claims Claims) error {
	if claims.ExpiresAt == nil {
		return ErrUnauthenticated
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.WithField("user_id", claims.UserID()).Info("user logged out")
	return nil
}
