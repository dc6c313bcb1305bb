package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/types"
	"github.com/culturallm/culturallm-backend/internal/utils"
)

type JWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, username, password string) (*TokenPair, *types.User, error)
	RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error)
	LogoutUser(ctx context.Context) error
	// SetContextFromToken validates the bearer token and, when valid, attaches
	// the caller's identity to the returned context. An empty token returns
	// the context unchanged.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	utils.NormalizeUserFields(user)
	if err := utils.ValidateRegistration(ctx, as.userRepo, as.log, user); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), ErrInvalidInput)
	}
	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.ID = uuid.New()
	user.Password = hashed
	user.SignupDate = time.Now()
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return storageErr("insert user", err)
	}
	return nil
}

func (as *authService) LoginUser(ctx context.Context, username, password string) (*TokenPair, *types.User, error) {
	username = strings.TrimSpace(username)
	if err := utils.ValidateLogin(username, password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidInput)
	}

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, nil, storageErr("load user", err)
	}
	if user == nil || !utils.CheckPassword(user.Password, password) {
		return nil, nil, fmt.Errorf("invalid username or password: %w", ErrUnauthorized)
	}

	pair, err := as.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	if err := as.userRepo.UpdateFields(ctx, nil, user.ID, map[string]any{"last_login": now}); err != nil {
		as.log.Warn("Could not record last login", "user_id", user.ID.String(), "error", err)
	}
	user.LastLogin = &now
	return pair, user, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required: %w", ErrInvalidInput)
	}
	stored, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return nil, storageErr("load refresh token", err)
	}
	if stored == nil || stored.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("refresh token invalid or expired: %w", ErrUnauthorized)
	}
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{stored.UserID})
	if err != nil {
		return nil, storageErr("load user", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no user for refresh token: %w", ErrUnauthorized)
	}

	// Rotation: old refresh tokens die when a new pair is issued.
	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, stored.UserID); err != nil {
		return nil, storageErr("delete old refresh token", err)
	}
	return as.issueTokens(ctx, users[0])
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context: %w", ErrUnauthorized)
	}
	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
		return storageErr("delete user tokens", err)
	}
	return nil
}

func (as *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken := uuid.New().String()
	userToken := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, nil, []*types.UserToken{userToken}); err != nil {
		return nil, storageErr("insert user token", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", ErrUnauthorized)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token: %w", ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", ErrUnauthorized)
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Username:    claims.Username,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) AccessTTL() time.Duration {
	return as.accessTTL
}
