package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rtl-support-chatbot-be/internal/config"
	"rtl-support-chatbot-be/internal/dto"
	"rtl-support-chatbot-be/internal/entity"
	"rtl-support-chatbot-be/internal/repository/contract"
)

// IAuthService defines the auth service interface
type IAuthService interface {
	Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
	CurrentUser(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
}

type authService struct {
	userRepo contract.UserRepository
	cfg      config.AuthConfig
}

func NewAuthService(userRepo contract.UserRepository, cfg config.AuthConfig) IAuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *authService) Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, err := as.userRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), as.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Id:        uuid.New(),
		Name:      request.Name,
		Email:     request.Email,
		Password:  string(hashed),
		CreatedAt: time.Now(),
	}
	if err := as.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (as *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := as.userRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(as.cfg.TokenTTLHours) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(as.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User: &dto.UserDTO{
			Id:    user.Id,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

func (as *authService) CurrentUser(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	user, err := as.userRepo.FindOne(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return &dto.UserDTO{
		Id:    user.Id,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
