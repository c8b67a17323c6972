package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")

const defaultTTL = 7 * 24 * time.Hour

// Claims 操作者令牌。Operator 是下发命令的主体（玩家席位或裁判服务）。
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// Signer 持有 HS256 密钥，secret 为空时回退环境变量 JWT_SECRET。
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Signer{key: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Award 为 operator 签发令牌。
func (s *Signer) Award(operator string) (string, error) {
	now := s.now()
	claims := &Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse 解析并验证令牌，只接受 HS256。
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
