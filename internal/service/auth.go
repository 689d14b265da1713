package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recipegenie/backend/internal/models"
	"github.com/recipegenie/backend/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrNoAccount          = errors.New("no account found for this identity")
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// AuthService handles registration, login, federated sign-in and account
// deletion. Tokens are HS256 JWTs valid for 24 hours.
type AuthService struct {
	db           *gorm.DB
	jwtSecret    string
	tokenInfoURL string
	client       *http.Client
	logger       *zap.Logger
}

func NewAuthService(db *gorm.DB, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:           db,
		jwtSecret:    jwtSecret,
		tokenInfoURL: googleTokenInfoURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

// Register creates a password-backed account and returns a session token.
func (s *AuthService) Register(name, email, password string) (string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return s.GenerateToken(user.ID, user.Name)
}

// Login verifies an email/password pair and returns a session token.
// Federated accounts have no password hash and cannot log in this way.
func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.GenerateToken(user.ID, user.Name)
}

type googleTokenInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// LoginWithGoogle exchanges a Google ID token for a session token, creating
// the account on first sign-in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (string, error) {
	info, err := s.verifyGoogleToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	var user models.User
	err = s.db.Where("google_id = ?", info.Sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Link to an existing password account with the same email, else
		// create a fresh federated account.
		err = s.db.Where("email = ?", info.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				ID:       uuid.New(),
				Name:     info.Name,
				Email:    info.Email,
				GoogleID: info.Sub,
				PhotoURL: info.Picture,
			}
			if err := s.db.Create(&user).Error; err != nil {
				return "", fmt.Errorf("failed to create federated user: %w", err)
			}
		} else if err != nil {
			return "", fmt.Errorf("failed to look up user: %w", err)
		} else {
			user.GoogleID = info.Sub
			if user.PhotoURL == "" {
				user.PhotoURL = info.Picture
			}
			if err := s.db.Save(&user).Error; err != nil {
				return "", fmt.Errorf("failed to link google identity: %w", err)
			}
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	return s.GenerateToken(user.ID, user.Name)
}

func (s *AuthService) verifyGoogleToken(ctx context.Context, idToken string) (*googleTokenInfo, error) {
	endpoint := fmt.Sprintf("%s?id_token=%s", s.tokenInfoURL, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredentials
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode token info: %w", err)
	}
	if info.Sub == "" || info.Email == "" || info.EmailVerified != "true" {
		return nil, ErrInvalidCredentials
	}
	return &info, nil
}

// DeleteAccount removes the user and everything keyed to them: profile,
// saved recipes, request log, purchases.
func (s *AuthService) DeleteAccount(userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoAccount
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		for _, m := range []interface{}{
			&models.SavedRecipe{},
			&models.RecipeRequest{},
			&models.CreditPurchase{},
			&models.UserProfile{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete user data: %w", err)
			}
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAccount
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// GenerateToken signs a 24-hour session token for the user.
func (s *AuthService) GenerateToken(userID uuid.UUID, name string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"name":    name,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	name, _ := claims["name"].(string)
	return &types.TokenClaims{UserID: userID, Name: name}, nil
}
