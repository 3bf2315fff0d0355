package userapi

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther exchanges credentials for signed bearer tokens.
type Auther struct {
	repo   Users
	tokens TokenService
	logger Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(repo Users, tokens TokenService) *Auther {
	return &Auther{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// Login verifies the given credentials and returns a signed token for the
// matching user. Unknown emails and bad passwords produce the same
// credentials error so callers cannot probe for registered accounts.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if IsRecordNotFound(err) {
			s.logger.Info("Login attempt for unknown email: %s", email)
			return "", ErrMismatchedHashAndPassword
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Info("Login password mismatch for user %d", user.ID)
		return "", ErrMismatchedHashAndPassword
	}

	return s.tokens.Generate(Identity{ID: user.ID, Email: user.Email})
}
