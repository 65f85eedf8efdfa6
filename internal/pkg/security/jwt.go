package security

import (
	"Hearth/internal/api/config"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "Hearth"

var (
	jwtSecret      = []byte("hearth")
	jwtExpiration  = 24 * time.Hour
	moderatorRoles = map[string]struct{}{"ADMIN": {}, "MODERATOR": {}}
)

// Configure 使用配置覆盖默认的密钥、有效期与版主角色
func Configure(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.ExpireHours > 0 {
		jwtExpiration = time.Duration(cfg.ExpireHours) * time.Hour
	}
	if len(cfg.ModeratorRoles) > 0 {
		roles := make(map[string]struct{}, len(cfg.ModeratorRoles))
		for _, r := range cfg.ModeratorRoles {
			roles[r] = struct{}{}
		}
		moderatorRoles = roles
	}
}

// GenerateToken 生成一个新的 JWT Token
func GenerateToken(userID uint64, roles []string) (string, error) {
	expirationTime := time.Now().Add(jwtExpiration)

	claims := &UserClaims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}

	return tokenString, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token 解析失败: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token 无效或已过期")
	}

	return claims, nil
}

// ExtractSignature 从 Token 字符串中提取签名
func ExtractSignature(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return "", errors.New("token 格式不正确")
	}
	return parts[2], nil
}

// IsModerator 角色中包含任一版主角色
func IsModerator(roles []string) bool {
	for _, r := range roles {
		if _, ok := moderatorRoles[r]; ok {
			return true
		}
	}
	return false
}
