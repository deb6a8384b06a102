package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType 区分访问令牌与刷新令牌
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

const issuer = "folio"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrMissingSecret    = errors.New("session secret is required")
)

// Claims 是会话令牌携带的声明。SessionID 对应 auth_sessions.token_id，
// 访问令牌与刷新令牌共享同一个 SessionID，登出时一并失效。
type Claims struct {
	jwt.RegisteredClaims
	IdentityID uint      `json:"uid"`
	Email      string    `json:"email"`
	SessionID  string    `json:"sid"`
	TokenType  TokenType `json:"typ"`
}

// TokenPair 是一次登录签发的令牌对
type TokenPair struct {
	SessionID        string
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenManager 负责签发与校验 HS256 会话令牌
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager 构造 TokenManager
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}, nil
}

// AccessTTL 返回访问令牌有效期
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL 返回刷新令牌有效期
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// Issue 为指定身份签发一对新令牌，并生成新的会话 ID。
func (m *TokenManager) Issue(identityID uint, email string) (*TokenPair, error) {
	sessionID := uuid.NewString()
	now := m.now()

	access, accessExp, err := m.sign(identityID, email, sessionID, TokenTypeAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.sign(identityID, email, sessionID, TokenTypeRefresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		SessionID:        sessionID,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Reissue 基于刷新令牌的声明签发新的访问令牌，沿用原会话 ID。
func (m *TokenManager) Reissue(refresh *Claims) (string, time.Time, error) {
	return m.sign(refresh.IdentityID, refresh.Email, refresh.SessionID, TokenTypeAccess, m.now())
}

func (m *TokenManager) sign(identityID uint, email, sessionID string, typ TokenType, now time.Time) (string, time.Time, error) {
	ttl := m.accessTTL
	if typ == TokenTypeRefresh {
		ttl = m.refreshTTL
	}
	expiresAt := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(identityID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		IdentityID: identityID,
		Email:      email,
		SessionID:  sessionID,
		TokenType:  typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccess 校验访问令牌
func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, TokenTypeAccess)
}

// ParseRefresh 校验刷新令牌
func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, TokenTypeRefresh)
}

func (m *TokenManager) parse(tokenString string, expected TokenType) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" || claims.IdentityID == 0 {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
