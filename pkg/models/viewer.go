package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Viewer is the employee looking at the catalog. It only drives
// personalization (department recommendations, onboarding flag) and is not
// an authenticated identity.
type Viewer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// ViewerClaims represents the viewer token claims
type ViewerClaims struct {
	ViewerID   string `json:"viewer_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Exp        int64  `json:"exp"`
	Iat        int64  `json:"iat"`
}

// GetExpirationTime implements jwt.Claims interface
func (c *ViewerClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

// GetIssuedAt implements jwt.Claims interface
func (c *ViewerClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}

// GetNotBefore implements jwt.Claims interface
func (c *ViewerClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims interface
func (c *ViewerClaims) GetIssuer() (string, error) {
	return "", nil
}

// GetSubject implements jwt.Claims interface
func (c *ViewerClaims) GetSubject() (string, error) {
	return c.ViewerID, nil
}

// GetAudience implements jwt.Claims interface
func (c *ViewerClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}

// Viewer converts the claims into a Viewer
func (c *ViewerClaims) Viewer() *Viewer {
	return &Viewer{ID: c.ViewerID, Name: c.Name, Department: c.Department}
}
