package services

import (
	"errors"
	"time"

	"threatlens/config"
	"threatlens/models"
	"threatlens/repositories"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(id uint) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	log      *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepository, log *zap.Logger) AuthService {
	return &authService{userRepo: userRepo, log: log}
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
	}

	if !user.IsActive {
		return nil, models.ErrorUnauthorized{Message: "account disabled"}
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		s.log.Warn("failed to stamp last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":         user.ID,
		"username":        user.Username,
		"organization_id": user.OrganizationID,
		"exp":             now.Add(config.JWTExpiration).Unix(),
		"iat":             now.Unix(),
		"nbf":             now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}
