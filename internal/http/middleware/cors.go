package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/solarepc/epc-api/internal/config"
	"go.uber.org/zap"
)

// The API always accepts these request headers, whatever the config lists:
// bearer tokens, the admin API key and caller supplied request ids.
var requiredCORSHeaders = []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"}

// Location carries the URL of created records, X-Request-ID correlates logs
var requiredExposedHeaders = []string{"Location", "X-Request-ID"}

var defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}

// Origins the web client is served from during local development
var localDevOrigins = []string{
	"http://localhost:5000",
	"http://127.0.0.1:5000",
	"http://localhost:5173",
}

func isLocalEnvironment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

// CORS returns a CORS middleware configured from the application config
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	options := cors.Options{
		AllowedMethods:   methods,
		AllowedHeaders:   mergeHeaders(cfg.AllowedHeaders, requiredCORSHeaders),
		ExposedHeaders:   mergeHeaders(cfg.ExposedHeaders, requiredExposedHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case containsWildcard(cfg.AllowedOrigins):
		if !isLocalEnvironment(environment) {
			logger.Warn("CORS allows every origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return origin != ""
		}
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case isLocalEnvironment(environment):
		options.AllowedOrigins = localDevOrigins
		logger.Info("CORS allows the local web client origins", zap.Strings("origins", localDevOrigins))
	default:
		// An empty AllowedOrigins means "*" to go-chi/cors, so deny explicitly
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return false
		}
		logger.Warn("CORS has no allowed origins, cross-origin requests are denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// mergeHeaders appends each required header missing from configured,
// comparing case-insensitively
func mergeHeaders(configured, required []string) []string {
	merged := make([]string, 0, len(configured)+len(required))
	seen := make(map[string]bool, len(configured)+len(required))
	for _, h := range append(append([]string{}, configured...), required...) {
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, h)
	}
	return merged
}
