package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el id de usuario propio de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// JWTResolver resuelve el actor desde un token bearer adjunto al contexto con
// WithToken. Permite a un caller autenticado por JWT propagar identidad sin
// que el motor conozca el esquema de autenticación.
type JWTResolver struct {
	secret string
}

// NewJWTResolver construye el resolver con el secreto de firma.
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: secret}
}

type tokenKey struct{}

// WithToken adjunta el token JWT crudo al contexto.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Resolve implementa Resolver: valida el token del contexto y devuelve su user_id.
func (r *JWTResolver) Resolve(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenKey{}).(string)
	if !ok || raw == "" {
		return "", false
	}
	userID, err := Parse(r.secret, raw)
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}

// Generate genera un token JWT firmado que incluye el userID.
func Generate(secret, userID, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el userID.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("claims inválidos")
	}
	return claims.UserID, nil
}
