package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"social-chat-api/config/common"
	"social-chat-api/entity"
	"social-chat-api/observability/metrics"
)

const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	// RenewalThreshold is fixed: tokens with less remaining lifetime are reissued.
	RenewalThreshold = 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWT issues, verifies and renews HS256 session tokens. There is no revocation list.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(config *common.Config) *JWT {
	return NewJWTWithSecret(config.GetJwtConfig(), config.GetJwtTTL())
}

func NewJWTWithSecret(secret []byte, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWT{secret: secret, ttl: ttl, now: time.Now}
}

func (j *JWT) Issue(userID, username string, ttl time.Duration) (string, error) {
	now := j.now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// GenerateToken issues a login token with the configured session lifetime.
// JWT_TTL only applies here. Renewed tokens always get DefaultTokenTTL.
func (j *JWT) GenerateToken(user *entity.User) (string, error) {
	token, err := j.Issue(user.ID, user.Username, j.ttl)
	if err == nil {
		metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	}
	return token, err
}

func (j *JWT) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RenewIfNearExpiry returns a fresh DefaultTokenTTL token carrying the same identity
// when less than RenewalThreshold of lifetime remains. renewed is false otherwise.
func (j *JWT) RenewIfNearExpiry(claims *Claims) (token string, renewed bool, err error) {
	if claims == nil || claims.ExpiresAt == nil {
		return "", false, nil
	}
	if claims.ExpiresAt.Time.Sub(j.now()) >= RenewalThreshold {
		return "", false, nil
	}
	token, err = j.Issue(claims.UserID, claims.Username, DefaultTokenTTL)
	if err != nil {
		return "", false, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("renew").Inc()
	return token, true, nil
}
