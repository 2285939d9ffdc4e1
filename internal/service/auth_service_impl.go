package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/auth"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// MinPasswordLength applies to registration only.
const MinPasswordLength = 6

type authService struct {
	users    repository.UserRepo
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	observer UseCaseObserver
}

func NewAuthService(users repository.UserRepo, secret []byte, ttl time.Duration, observers ...UseCaseObserver) AuthService {
	return &authService{
		users:    users,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *authService) Register(ctx context.Context, cred domain.Credentials) (res *domain.AuthResult, err error) {
	email := strings.TrimSpace(cred.Email)
	defer observe(ctx, s.observer, "register", map[string]any{"email": email}, &err)()

	verr := &domain.ValidationError{}
	if email == "" {
		verr.Missing = append(verr.Missing, "email")
	} else if !strings.Contains(email, "@") {
		verr.Invalid = append(verr.Invalid, "email")
	}
	if cred.Password == "" {
		verr.Missing = append(verr.Missing, "password")
	} else if len(cred.Password) < MinPasswordLength {
		verr.Invalid = append(verr.Invalid, "password")
	}
	if len(verr.Missing)+len(verr.Invalid) > 0 {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cred.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	acct := &repository.Account{
		User:         domain.User{ID: newID(), Name: name, Email: email},
		PasswordHash: string(hash),
	}
	if err = s.users.Create(ctx, acct); err != nil {
		return nil, err
	}
	return s.issue(acct.User)
}

func (s *authService) Login(ctx context.Context, email, password string) (res *domain.AuthResult, err error) {
	email = strings.TrimSpace(email)
	defer observe(ctx, s.observer, "login", map[string]any{"email": email}, &err)()

	acct, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(acct.User)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := auth.Verify(s.secret, token, s.now())
	if err != nil {
		return nil, err
	}
	acct, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return &acct.User, nil
}

func (s *authService) issue(user domain.User) (*domain.AuthResult, error) {
	token, err := auth.Issue(s.secret, user, s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}
