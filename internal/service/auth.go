package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/openshelf/internal/errs"
	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/internal/repository"
	"github.com/openshelf/openshelf/pkg/auth"
)

type Auth struct {
	log      *zap.Logger
	repo     repository.Users
	jwtKey   []byte
	tokenTTL time.Duration
}

func NewAuth(repo repository.Users, jwtKey []byte, tokenTTL time.Duration, log *zap.Logger) *Auth {
	return &Auth{
		log:      log,
		repo:     repo,
		jwtKey:   jwtKey,
		tokenTTL: tokenTTL,
	}
}

func (s *Auth) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         model.RoleUser,
		PasswordHash: string(hash),
	})
}

func (s *Auth) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}

	token, err := auth.NewToken(s.jwtKey, user.ID, user.Email, string(user.Role), s.tokenTTL)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

func (s *Auth) Profile(ctx context.Context, userID int) (model.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Auth) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (model.User, error) {
	return s.repo.UpdateUser(ctx, userID, req)
}

// EnsureAdmin bootstraps the admin account from config on startup.
func (s *Auth) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.repo.CreateUser(ctx, model.User{
		Name:         name,
		Email:        email,
		Role:         model.RoleAdmin,
		PasswordHash: string(hash),
	}); err != nil {
		return err
	}
	s.log.Info("admin account bootstrapped", zap.String("email", email))
	return nil
}
