package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/solarepc/epc-api/internal/config"
	"github.com/solarepc/epc-api/internal/domain"
	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens       *TokenManager
	apiKey       string
	apiKeyUserID uint
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.AuthConfig, tokens *TokenManager, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens:       tokens,
		apiKey:       cfg.APIKey,
		apiKeyUserID: cfg.APIKeyUserID,
		logger:       logger,
	}
}

// OptionalAuthenticate attaches a user context when the request carries a valid
// API key or bearer token. Requests without valid credentials continue anonymously.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userCtx := m.authenticate(r); userCtx != nil {
			next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate rejects requests without valid credentials
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx := m.authenticate(r)
		if userCtx == nil {
			writeError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Unauthorized", "Missing or invalid credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// RequireRole middleware ensures user has specific role
func (m *Middleware) RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Unauthorized", "Authentication required")
				return
			}
			if !userCtx.HasAnyRole(roles...) {
				writeError(w, http.StatusForbidden, domain.ErrorTypeForbidden, "Forbidden", "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) authenticate(r *http.Request) *UserContext {
	if key := r.Header.Get("x-api-key"); key != "" {
		if m.validateAPIKey(key) {
			return &UserContext{
				UserID:   m.apiKeyUserID,
				Username: "system",
				Role:     domain.RoleAdmin,
				AuthType: "api_key",
			}
		}
		m.logger.Debug("invalid API key, continuing unauthenticated",
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	userCtx, err := m.tokens.ValidateToken(parts[1])
	if err != nil {
		m.logger.Debug("token validation failed, continuing unauthenticated",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		return nil
	}
	return userCtx
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func writeError(w http.ResponseWriter, status int, errType, title, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   errType,
		Title:  title,
		Status: status,
		Detail: detail,
	})
}
