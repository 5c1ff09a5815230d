package utils

import (
	"fmt"
	"strings"
	"time"

	"app-catalog-backend/pkg/models"

	"github.com/golang-jwt/jwt/v5"
)

// ViewerTokenTTL 访客令牌有效期
const ViewerTokenTTL = 30 * 24 * time.Hour

// JWTService 访客令牌服务
type JWTService struct {
	secretKey []byte
	now       func() time.Time
}

// NewJWTService 创建JWT服务
func NewJWTService(secretKey string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// GenerateViewerToken 为访客签发令牌，返回令牌和过期时间戳
func (j *JWTService) GenerateViewerToken(viewer *models.Viewer) (string, int64, error) {
	now := j.now()
	expiry := now.Add(ViewerTokenTTL)

	claims := &models.ViewerClaims{
		ViewerID:   viewer.ID,
		Name:       viewer.Name,
		Department: viewer.Department,
		Exp:        expiry.Unix(),
		Iat:        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate viewer token: %w", err)
	}

	return tokenString, expiry.Unix(), nil
}

// ValidateToken 验证令牌
func (j *JWTService) ValidateToken(tokenString string) (*models.ViewerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.ViewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.ViewerClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// ExtractViewer 从Authorization头中解析访客，格式不正确时返回错误
func (j *JWTService) ExtractViewer(authHeader string) (*models.Viewer, error) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims.Viewer(), nil
}
