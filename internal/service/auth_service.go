package service

import (
	"context"
	"errors"
	"time"

	"lojalink/internal/dto"
	"lojalink/internal/middleware"
	"lojalink/internal/model"
	"lojalink/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

var (
	ErrInvalidCredentials = errors.New("email ou senha incorretos")
	ErrEmailTaken         = errors.New("email ja cadastrado")
	ErrInvalidRole        = errors.New("perfil invalido")
	ErrUserInactive       = errors.New("usuario desativado")
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, role string, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	ReactivateUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo          repository.UserRepository
	secret        string
	tokenTTL      time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(repo repository.UserRepository, secret string, expirationHours, refreshHours int) AuthService {
	return &authService{
		repo:       repo,
		secret:     secret,
		tokenTTL:   time.Duration(expirationHours) * time.Hour,
		refreshTTL: time.Duration(refreshHours) * time.Hour,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same answer for unknown email and wrong password
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// re-read so deactivation and role changes take effect immediately.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	access, err := s.signToken(user, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		User:         userToResponse(user),
	}, nil
}

func (s *authService) signToken(user *model.User, ttl time.Duration) (string, error) {
	var storeID *string
	if user.StoreID != nil {
		sid := user.StoreID.String()
		storeID = &sid
	}
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Role:    string(user.Role),
		StoreID: storeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if req.StoreID != nil {
		sid, err := uuid.Parse(*req.StoreID)
		if err != nil {
			return nil, errors.New("store_id invalido")
		}
		user.StoreID = &sid
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context, role string, includeInactive bool) ([]dto.UserResponse, error) {
	if role != "" {
		if _, ok := model.ParseRole(role); !ok {
			return nil, ErrInvalidRole
		}
	}
	users, err := s.repo.List(ctx, role, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userToResponse(&users[i]))
	}
	return resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		role, ok := model.ParseRole(req.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.StoreID != nil {
		sid, err := uuid.Parse(*req.StoreID)
		if err != nil {
			return nil, errors.New("store_id invalido")
		}
		user.StoreID = &sid
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrUserNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrUserNotFound
	}
	return s.repo.Reactivate(ctx, id)
}

func userToResponse(u *model.User) dto.UserResponse {
	var storeID *string
	if u.StoreID != nil {
		sid := u.StoreID.String()
		storeID = &sid
	}
	return dto.UserResponse{
		ID:      u.ID.String(),
		Name:    u.Name,
		Email:   u.Email,
		Role:    string(u.Role),
		StoreID: storeID,
		Active:  u.Active,
	}
}
