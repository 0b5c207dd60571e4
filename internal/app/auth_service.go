package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/Sekyls/job-recruitment-backend/internal/auth"
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so login failures don't reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidInput covers schema-level validation failures on the
	// account endpoints.
	ErrInvalidInput = errors.New("invalid input")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterRequest bundles the registration input.
type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth time.Time
	Role        string
}

// AuthService handles account registration and login.
type AuthService struct {
	users    domain.UserRepository
	verifier *auth.Verifier
	clock    clockwork.Clock
}

func NewAuthService(users domain.UserRepository, verifier *auth.Verifier, clock clockwork.Clock) *AuthService {
	return &AuthService{users: users, verifier: verifier, clock: clock}
}

// Register validates the input, hashes the password and creates the
// account. The email unique constraint surfaces as domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if req.DateOfBirth.IsZero() || !req.DateOfBirth.Before(s.clock.Now()) {
		return nil, fmt.Errorf("%w: date of birth must be in the past", ErrInvalidInput)
	}

	role := domain.RoleSeeker
	if req.Role != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			return nil, fmt.Errorf("%w: role must be seeker or employer", ErrInvalidInput)
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		DateOfBirth:  req.DateOfBirth,
		Role:         role,
	})
}

// Login checks the credentials and mints a bearer token carrying the
// user's id and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.verifier.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// validatePassword enforces the account password policy: at least 8
// characters with one upper, one lower and one digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password needs an uppercase letter, a lowercase letter and a digit", ErrInvalidInput)
	}
	return nil
}
