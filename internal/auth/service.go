package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/response"
	"github.com/Davidxcr/YelpCamp/internal/shared/validate"

	"github.com/asaskevich/govalidator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// test seams
var (
	hashPasswordFn    = bcrypt.GenerateFromPassword
	signTokenFn       = (*Service).signToken
	parseWithClaimsFn = jwt.ParseWithClaims
)

var errInvalidCredentials = response.Unauthorized("Invalid username or password")

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     q,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, TokenResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return User{}, TokenResponse{}, err
	}
	if !govalidator.IsEmail(req.Email) {
		return User{}, TokenResponse{}, response.InvalidInput("Validation failed", "email must be a valid email")
	}

	hash, err := hashPasswordFn([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, user.ID, user.Username, user.Email, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			field := "username"
			if strings.Contains(db.ConstraintName(err), "email") {
				field = "email"
			}
			return User{}, TokenResponse{}, response.Conflict("User already exists", "a user with that "+field+" is already registered")
		}
		return User{}, TokenResponse{}, response.Upstream("Failed to register user", err)
	}

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, TokenResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return User{}, TokenResponse{}, response.InvalidInput("Validation failed", "username and password are required")
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1
	`, strings.TrimSpace(req.Username))

	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if db.IsNoRows(err) {
			return User{}, TokenResponse{}, errInvalidCredentials
		}
		return User{}, TokenResponse{}, response.Upstream("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return User{}, TokenResponse{}, errInvalidCredentials
	}

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

// Me loads the user behind an access token.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, created_at FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) || db.IsInvalidID(err) {
			return User{}, response.NotFound("User not found", "the authenticated user no longer exists")
		}
		return User{}, response.Upstream("Failed to fetch user", err)
	}
	return user, nil
}

func (s *Service) GenerateTokens(ctx context.Context, userID string) (TokenResponse, error) {
	access, err := signTokenFn(s, userID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := signTokenFn(s, userID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, userID, refreshTokenTTL); err != nil {
		return TokenResponse{}, response.Upstream("Failed to issue tokens", err)
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

// Refresh exchanges a live refresh token for a new pair and revokes the old
// one.
func (s *Service) Refresh(ctx context.Context, token string) (TokenResponse, error) {
	userID, err := s.ValidateRefreshToken(ctx, token)
	if err != nil {
		return TokenResponse{}, err
	}
	if _, err := s.db.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = now() WHERE token = $1`, token); err != nil {
		return TokenResponse{}, response.Upstream("Failed to rotate refresh token", err)
	}
	return s.GenerateTokens(ctx, userID)
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", response.Unauthorized("Refresh token invalid")
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil && !db.IsNoRows(err) {
		return "", response.Upstream("Failed to validate refresh token", err)
	}
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return "", response.Unauthorized("Refresh token invalid")
	}
	return claims.UserID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}
