package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/careslot/appointment-booking-service/internal/domain"
	"github.com/careslot/appointment-booking-service/internal/repository"
)

const tokenTTL = 24 * time.Hour

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type AuthService interface {
	Register(name, email, phone, password string) (AuthResult, error)
	Login(email, password string) (AuthResult, error)
}

type authService struct {
	users  repository.UserRepository
	secret string
	logger *logrus.Logger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, secret string, logger *logrus.Logger, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{users: users, secret: secret, logger: logger, now: now}
}

func (s *authService) Register(name, email, phone, password string) (AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: name, email and password are required", domain.ErrBadRequest)
	}

	exists, err := s.users.ExistsByEmail(email)
	if err != nil {
		return AuthResult{}, err
	}
	if exists {
		return AuthResult{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user := domain.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(hashed),
		Role:     domain.RoleUser,
	}
	if err := s.users.Create(&user); err != nil {
		return AuthResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"Function": "Register",
		"UserID":   user.ID,
	}).Info("User registered")
	return s.issue(user)
}

func (s *authService) Login(email, password string) (AuthResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	s.logger.WithFields(logrus.Fields{
		"Function": "Login",
		"UserID":   user.ID,
	}).Info("User logged in")
	return s.issue(user)
}

func (s *authService) issue(user domain.User) (AuthResult, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, UserID: user.ID, Name: user.Name, Role: user.Role}, nil
}

// ParseToken validates a bearer token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	return claims, nil
}
