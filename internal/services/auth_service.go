package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/storage"
)

type authServiceImpl struct {
	logger    zerolog.Logger
	users     storage.UserStore
	resolver  UserService
	passwords PasswordHasher
	tokens    TokenIssuer
	now       func() time.Time

	// dummyHash is verified against when the user does not exist so that
	// unknown usernames take as long as wrong passwords.
	dummyHash string
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserStore,
	resolver UserService,
	passwords PasswordHasher,
	tokens TokenIssuer,
) AuthService {
	dummyHash, err := passwords.Hash("taskd-dummy-password")
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to prepare dummy password hash")
	}

	return &authServiceImpl{
		logger:    logger,
		users:     users,
		resolver:  resolver,
		passwords: passwords,
		tokens:    tokens,
		now:       time.Now,
		dummyHash: dummyHash,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	passwordHash, err := s.passwords.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	user := models.User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		CreatedAt:    s.now().UTC().Truncate(timePrecision),
	}

	err = s.users.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.logger.Error().
				Str("username", user.Username).
				Msg("user with this username already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("inserted user")

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("registered user")
	return &AuthResult{
		UserID: user.ID,
		Token:  token,
	}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := s.resolver.GetByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			if s.dummyHash != "" {
				_, _ = s.passwords.Verify(params.Password, s.dummyHash)
			}
			s.logger.Error().
				Str("username", params.Username).
				Msg("login failed")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.passwords.Verify(params.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", user.ID).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().
			Str("username", params.Username).
			Msg("login failed")
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("logged in")
	return &AuthResult{
		UserID: user.ID,
		Token:  token,
	}, nil
}

func (s *authServiceImpl) issueToken(userID int64) (string, error) {
	token, err := s.tokens.Issue(strconv.FormatInt(userID, 10))
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to issue token")
		return "", err
	}
	return token, nil
}
