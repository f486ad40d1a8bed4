package middleware

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"expenses/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ContextUserID gin 上下文中当前用户 ID 的键
	ContextUserID = "userID"
	// ContextEmail gin 上下文中当前用户邮箱的键
	ContextEmail = "email"
)

var (
	jwtMu     sync.RWMutex
	jwtSecret []byte
	jwtTTL    = 7 * 24 * time.Hour
)

// Claims JWT 载荷
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// InitJWT 从配置初始化签名密钥与有效期
func InitJWT(cfg *config.Config) {
	jwtMu.Lock()
	defer jwtMu.Unlock()
	jwtSecret = []byte(cfg.JWT.Secret)
	if cfg.JWT.ExpireTime > 0 {
		jwtTTL = cfg.JWT.ExpireTime
	}
}

// TokenTTL 当前令牌有效期
func TokenTTL() time.Duration {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	return jwtTTL
}

func secret() ([]byte, error) {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret not initialized")
	}
	return jwtSecret, nil
}

// GenerateToken 生成 HS256 令牌
func GenerateToken(userID, email string, ttl time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// IssueToken 使用配置的有效期生成令牌
func IssueToken(userID, email string) (string, error) {
	return GenerateToken(userID, email, TokenTTL())
}

// ParseToken 解析并校验令牌
func ParseToken(tokenString string) (*Claims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTAuth JWT 认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "No token, authorization denied")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "No token, authorization denied")
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "Token is not valid")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// GetCurrentUserID 获取当前用户 ID，未认证时返回空串
func GetCurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
