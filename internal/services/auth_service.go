package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jedrzejbor/osiedlsie/internal/auth"
	"github.com/jedrzejbor/osiedlsie/internal/config"
	"github.com/jedrzejbor/osiedlsie/internal/db"
	"github.com/jedrzejbor/osiedlsie/internal/models"
	"github.com/jedrzejbor/osiedlsie/internal/validation"
)

// IAuthService handles account registration and credential login. Both
// operations return a signed token together with the public user view.
type IAuthService interface {
	Register(ctx context.Context, input *validation.RegisterInput) (string, *models.PublicUser, error)
	Login(ctx context.Context, input *validation.LoginInput) (string, *models.PublicUser, error)
}

type authService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(database *mongo.Database, cfg *config.Config) IAuthService {
	return &authService{db: database, cfg: cfg}
}

func (s *authService) users() *mongo.Collection {
	return s.db.Collection("users")
}

func (s *authService) Register(ctx context.Context, input *validation.RegisterInput) (string, *models.PublicUser, error) {
	if verrs := validation.CheckRegisterInput(input); verrs != nil {
		return "", nil, verrs
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	count, err := s.users().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return "", nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return "", nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}

	_, err = s.users().InsertOne(ctx, user)
	if err != nil {
		// The unique index closes the race between the count above and the
		// insert.
		if db.IsMongoDuplicateKeyError(err) {
			return "", nil, ErrEmailExists
		}
		return "", nil, fmt.Errorf("failed to insert user: %w", err)
	}
	log.Printf("Registered user %s (%s)", user.ID, user.Email)

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user.Public(), nil
}

func (s *authService) Login(ctx context.Context, input *validation.LoginInput) (string, *models.PublicUser, error) {
	if verrs := validation.CheckLoginInput(input); verrs != nil {
		return "", nil, verrs
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, input.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, user.Public(), nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	token, err := auth.GenerateJWT(user.ID, user.Email, string(user.Role), s.cfg.JwtSecret, s.cfg.JwtTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
