package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
)

const (
	TokenTypeAccess = "access"
	TokenTypeStream = "stream"

	streamTokenTTL = 5 * time.Minute
)

var ErrWrongTokenType = errors.New("token type not accepted here")

// StreamClaims identifies the subscriber behind a real-time connection.
type StreamClaims struct {
	UserID string
	Role   user.Role
}

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	GenerateStreamToken(userID string, role user.Role) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (StreamClaims, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt time.Time)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
	now            func() time.Time

	mu            sync.RWMutex
	revokedTokens map[string]time.Time
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) *JWTService {
	return &JWTService{
		accessTokenTTL: accessTokenTTL,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:            time.Now,
		revokedTokens:  make(map[string]time.Time),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateStreamToken issues a short-lived token for SSE and WebSocket
// connections, where browsers cannot set an Authorization header.
func (j *JWTService) GenerateStreamToken(userID string, role user.Role) (token string, expiresIn int, err error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    TokenTypeStream,
		"exp":     j.now().Add(streamTokenTTL).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(streamTokenTTL.Seconds()), nil
}

func (j *JWTService) ValidateStreamToken(tokenString string) (StreamClaims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return StreamClaims{}, err
	}

	claims := token.PrivateClaims()
	if t, _ := claims["type"].(string); t != TokenTypeStream {
		return StreamClaims{}, ErrWrongTokenType
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return StreamClaims{}, jwt.ErrInvalidJWT()
	}
	role, _ := claims["role"].(string)
	if !user.Role(role).IsValid() {
		return StreamClaims{}, jwt.ErrInvalidJWT()
	}

	return StreamClaims{UserID: userID, Role: user.Role(role)}, nil
}

// RevokeToken blacklists a token until its expiry. Expired entries are
// swept on each call.
func (j *JWTService) RevokeToken(token string, expiresAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for t, exp := range j.revokedTokens {
		if exp.Before(now) {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
