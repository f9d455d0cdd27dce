package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/pkg/logger"
	"edu-chat-be/internal/repository/specification"
	"edu-chat-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionTokenTTL = 12 * time.Hour
	launchTokenTTL  = 5 * time.Minute
	tokenSweepEvery = time.Hour
)

type IAuthService interface {
	// LtiLaunch provisions module and user on first sight and returns a
	// one-time launch token to exchange for a session.
	LtiLaunch(ctx context.Context, req *dto.LtiLaunchRequest) (string, error)
	// ExchangeLaunchToken turns an unexpired launch token into a JWT.
	// The token is consumed either way.
	ExchangeLaunchToken(ctx context.Context, token string) (*dto.AuthResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AuthResponse, error)
	AcceptTerms(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	// StartTokenSweep deletes expired launch tokens on a fixed interval
	// until the context is cancelled.
	StartTokenSweep(ctx context.Context)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	jwtSecret  string
	log        logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, jwtSecret string, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		jwtSecret:  jwtSecret,
		log:        log,
	}
}

func (s *authService) LtiLaunch(ctx context.Context, req *dto.LtiLaunchRequest) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer uow.Rollback()

	module, err := uow.ModuleRepository().FindByExternalRef(ctx, req.ModuleExternalRef)
	if err != nil {
		return "", err
	}
	if module == nil {
		module = &entity.Module{
			Id:          uuid.New(),
			Name:        req.ModuleName,
			ExternalRef: req.ModuleExternalRef,
			CreatedAt:   time.Now(),
		}
		if err := uow.ModuleRepository().Create(ctx, module); err != nil {
			return "", err
		}
	}

	user, err := uow.UserRepository().FindByModuleAndExternalRef(ctx, module.Id, req.UserExternalRef)
	if err != nil {
		return "", err
	}
	if user == nil {
		user = &entity.User{
			Id:          uuid.New(),
			ModuleId:    module.Id,
			ExternalRef: req.UserExternalRef,
			Name:        req.Name,
			Email:       req.Email,
			MaxRequests: 50,
			IsAdmin:     req.IsAdmin,
			CreatedAt:   time.Now(),
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return "", err
		}
	} else if user.Name != req.Name || user.Email != req.Email || user.IsAdmin != req.IsAdmin {
		// Launch data is authoritative for identity fields.
		user.Name = req.Name
		user.Email = req.Email
		user.IsAdmin = req.IsAdmin
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return "", err
		}
	}

	launchToken, err := randomToken()
	if err != nil {
		return "", err
	}
	authToken := entity.AuthToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     launchToken,
		ExpiresAt: time.Now().Add(launchTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := uow.AuthTokenRepository().Create(ctx, &authToken); err != nil {
		return "", err
	}

	if err := uow.Commit(); err != nil {
		return "", err
	}
	return launchToken, nil
}

func (s *authService) ExchangeLaunchToken(ctx context.Context, token string) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	authToken, err := uow.AuthTokenRepository().FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if authToken == nil || authToken.ExpiresAt.Before(time.Now()) {
		return nil, &dto.NotFoundError{Resource: "launch token"}
	}

	// One-time use.
	if err := uow.AuthTokenRepository().Delete(ctx, authToken.Id); err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: authToken.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &dto.NotFoundError{Resource: "user"}
	}

	return s.buildAuthResponse(user)
}

func (s *authService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsAdmin || user.PasswordHash == "" {
		return nil, &dto.OwnershipError{Resource: "admin area"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &dto.OwnershipError{Resource: "admin area"}
	}

	return s.buildAuthResponse(user)
}

func (s *authService) AcceptTerms(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &dto.NotFoundError{Resource: "user"}
	}

	if user.TermsAcceptedAt == nil {
		now := time.Now()
		user.TermsAcceptedAt = &now
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return mapUserResponse(user), nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &dto.NotFoundError{Resource: "user"}
	}
	return mapUserResponse(user), nil
}

func (s *authService) StartTokenSweep(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(tokenSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				uow := s.uowFactory.NewUnitOfWork(ctx)
				deleted, err := uow.AuthTokenRepository().DeleteExpired(ctx, time.Now())
				if err != nil {
					s.log.Error("auth", "launch token sweep failed", map[string]interface{}{"error": err.Error()})
					continue
				}
				if deleted > 0 {
					s.log.Info("auth", "swept expired launch tokens", map[string]interface{}{"deleted": deleted})
				}
			}
		}
	}()
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"user_id":   user.Id.String(),
		"module_id": user.ModuleId.String(),
		"is_admin":  user.IsAdmin,
		"exp":       time.Now().Add(sessionTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.AuthResponse{
		Token: signed,
		User:  *mapUserResponse(user),
	}, nil
}

func mapUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:              user.Id,
		Email:           user.Email,
		Name:            user.Name,
		IsAdmin:         user.IsAdmin,
		MaxRequests:     user.MaxRequests,
		TermsAcceptedAt: user.TermsAcceptedAt,
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
