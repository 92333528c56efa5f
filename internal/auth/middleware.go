package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Service checks the studio bearer token against a configured bcrypt hash
type Service struct {
	hash []byte
}

// NewService creates an auth service. An empty hash disables authentication.
func NewService(hash string) *Service {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		log.Warn().Msg("STUDIO_API_KEY_HASH is not set, API authentication is disabled")
		return &Service{}
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		log.Warn().Err(err).Msg("STUDIO_API_KEY_HASH is not a bcrypt hash, every request will be rejected")
	}
	return &Service{hash: []byte(hash)}
}

// Enabled reports whether requests must carry a token.
func (s *Service) Enabled() bool {
	return len(s.hash) > 0
}

// Check reports whether token matches the configured hash.
func (s *Service) Check(token string) bool {
	if !s.Enabled() {
		return true
	}
	return bcrypt.CompareHashAndPassword(s.hash, []byte(token)) == nil
}

// Middleware requires "Authorization: Bearer <token>" when authentication is enabled.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}
		if !s.Check(token) {
			log.Debug().Str("path", r.URL.Path).Msg("Rejected request with invalid api key")
			writeJSONError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header, or from the
// access_token query parameter for websocket clients that cannot set headers.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if t := r.URL.Query().Get("access_token"); t != "" {
			return t, true
		}
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
