// Package services holds the server business logic. Services receive an
// authenticated user id from the transport and scope every read and write
// to it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/studylog/studylog/internal/common"
	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/auth"
	"github.com/studylog/studylog/internal/server/cache"
	"github.com/studylog/studylog/internal/server/config"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ErrEmailTaken is returned by Register for a duplicate email.
var ErrEmailTaken = fmt.Errorf("an account with this email already exists: %w", common.ErrorAlreadyExists)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService handles accounts and tokens:
// Register creates users, Login verifies credentials and mints tokens,
// RefreshToken rotates refresh tokens.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	cache                        *cache.Cache
	log                          logging.Logger
	loc                          *time.Location
	now                          func() time.Time
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		cache:                        c,
		log:                          log,
		loc:                          location(cfg),
		now:                          time.Now,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenTTL,
		refreshTokenValidityDuration: cfg.RefreshTokenTTL,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

func location(cfg *config.Config) *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// Register creates an account. Names are trimmed and the email is trimmed
// and lower-cased before it is checked for uniqueness.
func (s *UserService) Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))

	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrEmailTaken
		}
		s.log.Error(ctx, "create user failed", "email", email, "error", err)
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the password and returns a new TokenPair. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it in a transaction and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// GetUser returns the profile of userID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return cache.Load(s.cache, userID, cache.KindUser, "", func() (*models.User, error) {
		return s.repomanager.Users(s.db).GetByID(ctx, userID)
	})
}

// SignupDate is the calendar day of the account creation in the configured
// timezone. It is the lower bound of every historical range.
func (s *UserService) SignupDate(ctx context.Context, userID string) (time.Time, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	return datex.Today(u.CreatedAt, s.loc), nil
}

// Today is the current calendar day in the configured timezone.
func (s *UserService) Today() time.Time {
	return datex.Today(s.now(), s.loc)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	err = s.repomanager.RefreshTokens(db).Create(ctx, &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     refresh,
		Expires:   now.Add(s.refreshTokenValidityDuration),
		CreatedAt: now,
	})
	if err != nil {
		s.log.Error(ctx, "store refresh token failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
