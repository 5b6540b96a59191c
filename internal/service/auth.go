package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/andreicosmin02/furniture-store-api/internal/config"
	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
)

// UserStore is the persistence surface the auth and user services need.
type UserStore interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req models.UserUpdateRequest) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

// AuthService handles authentication and registration
type AuthService struct {
	users     UserStore
	jwtConfig config.JWT
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserStore, jwtConfig config.JWT) *AuthService {
	return &AuthService{
		users:     users,
		jwtConfig: jwtConfig,
	}
}

// Claims represents JWT claims
type Claims struct {
	UserID string          `json:"userId"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// generateToken signs a token for the user. Staff tokens keep the
// original short expiry; customer tokens were added later with a
// longer one. The mismatch is preserved deliberately.
func (s *AuthService) generateToken(userID uuid.UUID, role models.UserRole) (string, error) {
	expiresIn := s.jwtConfig.StaffExpiresIn
	if role == models.RoleCustomer {
		expiresIn = s.jwtConfig.CustomerExpiresIn
	}

	claims := &Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresIn) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Register creates a user. When forceCustomer is set (the public
// self-registration path) the requested role is ignored; otherwise a
// missing role defaults to employee.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, forceCustomer bool) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || len(req.Password) < 6 {
		return nil, fmt.Errorf("email and a password of at least 6 characters are required: %w", ErrInvalidInput)
	}

	role := req.Role
	if forceCustomer {
		role = models.RoleCustomer
	} else if role == "" {
		role = models.RoleEmployee
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// BootstrapAdmin creates the first admin account from the configured
// credentials when no admin exists yet.
func (s *AuthService) BootstrapAdmin(ctx context.Context, cfg config.Bootstrap) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	count, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = s.Register(ctx, models.RegisterRequest{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     models.RoleAdmin,
	}, false)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Bootstrap admin account created for %s", cfg.AdminEmail)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
