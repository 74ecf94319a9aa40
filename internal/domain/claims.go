package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims são as claims do token de sessão emitido pela camada de autenticação externa.
// O engine apenas valida o token; gestão de usuários fica fora do escopo.
type Claims struct {
	UserID       int
	UserEmail    string
	UserRoleID   int
	UserAccounts []string
	jwt.RegisteredClaims
}
