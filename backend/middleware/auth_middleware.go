package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrincipalResolver resolves the current user from a bearer token, when one
// is present. It never rejects a request: a missing or invalid token simply
// leaves the request unauthenticated, and downstream observation falls back
// to the AnonymousCaller sentinel.
type PrincipalResolver struct {
	secret []byte
	issuer string
	logger *zap.Logger
}

// NewPrincipalResolver creates a PrincipalResolver verifying HMAC-signed
// tokens with the given secret. When issuer is non-empty, tokens must carry
// a matching iss claim.
func NewPrincipalResolver(secret, issuer string, logger *zap.Logger) *PrincipalResolver {
	return &PrincipalResolver{
		secret: []byte(secret),
		issuer: issuer,
		logger: logger,
	}
}

// Resolve is a middleware that attaches a Principal to the request context
// when a valid bearer token is present.
func (m *PrincipalResolver) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.parse(token)
		if err != nil {
			m.logger.Warn("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m *PrincipalResolver) parse(token string) (*Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}

	p := &Principal{ID: id}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		p.Name = name
	}
	return p, nil
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
