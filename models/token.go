package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT access token'ın payload'ı.
//
// models paketinde tanımlıdır çünkü birden fazla katman (services,
// middleware) tarafından kullanılır — circular dependency'yi önler.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
