package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateURLToken 生成 URL-safe 的随机 token，长度约为 4/3*n 字符
func GenerateURLToken(n int) (string, error) {
	if n <= 0 {
		n = 12
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// 使用 RawURLEncoding，避免出现 '=' 填充与 '+' '/' 字符
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewViewerID 生成访客ID
func NewViewerID() (string, error) {
	token, err := GenerateURLToken(12)
	if err != nil {
		return "", err
	}
	return "viewer_" + token, nil
}
