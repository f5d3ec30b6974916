// Package service contains application services for authentication, file
// flows and sharing.
package service

import (
	"fmt"
	"time"

	"context"

	pkgcrypto "github.com/darshilbhuva09/quanta/internal/crypto"
	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/darshilbhuva09/quanta/internal/limiter"
	"github.com/darshilbhuva09/quanta/internal/model"
	"github.com/darshilbhuva09/quanta/internal/repository"
	"github.com/darshilbhuva09/quanta/internal/storage"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines account and token operations.
type AuthService interface {
	// Register creates a new user and provisions their remote container.
	Register(ctx context.Context, username, email, password string) (model.Tokens, error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, error)
	// GetUser loads the account for an authenticated user id.
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	store     storage.Store
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, store storage.Store, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, store: store, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// Register creates the user row, then the remote container, then attaches the
// container reference. The two side effects are not transactional: a container
// creation failure leaves a user without a container, with no automatic repair.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (model.Tokens, error) {
	if username == "" || password == "" {
		return model.Tokens{}, fmt.Errorf("%w: empty username/password", errs.ErrValidation)
	}
	if !validEmail(email) {
		return model.Tokens{}, fmt.Errorf("%w: bad email", errs.ErrValidation)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.Tokens{}, err
	}
	saltAuth, err := pkgcrypto.NewSalt()
	if err != nil {
		return model.Tokens{}, err
	}

	u := &model.User{
		ID:       uid,
		Username: username,
		Email:    email,
		PwdHash:  pkgcrypto.Hash([]byte(password), saltAuth),
		SaltAuth: saltAuth,
		FolderID: "", // attached below
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.Tokens{}, err
	}

	folderID, err := s.store.CreateContainer(ctx, username)
	if err != nil {
		return model.Tokens{}, fmt.Errorf("%w: create container: %v", errs.ErrUpstream, err)
	}
	if err := s.users.SetFolderID(ctx, uid, folderID); err != nil {
		return model.Tokens{}, err
	}

	return s.issueTokens(uid)
}

// LoginWithIP authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, err
	}
	if !allowed {
		return model.Tokens{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !pkgcrypto.Verify([]byte(password), u.SaltAuth, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Tokens{}, errs.ErrRateLimited
		}
		// hide whether the user exists on bad credentials
		return model.Tokens{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	return s.issueTokens(u.ID)
}

// GetUser loads the account by id.
func (s *AuthServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	return s.users.GetByID(ctx, userID)
}

// issueTokens creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueTokens(userID uuid.UUID) (model.Tokens, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}
