// internal/httpserver/admin.go
//
// Operator endpoint for the category cache.
//   - POST /admin/cache/purge → {"purged": N}
//
// Mounted only when both the cache and ADMIN_PASSWORD_HASH are configured.
// Requests authenticate with HTTP basic auth (any user name); the password is
// checked against the bcrypt hash.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) mountAdmin() {
	if s.cache == nil || s.cfg.AdminPasswordHash == "" {
		return
	}
	s.r.With(jsonContentType, s.requireAdmin).Post("/admin/cache/purge", s.handlePurge)
}

// requireAdmin enforces basic auth against the configured bcrypt hash.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	hash := []byte(s.cfg.AdminPasswordHash)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pw, ok := r.BasicAuth()
		if !ok || bcrypt.CompareHashAndPassword(hash, []byte(pw)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="jeopardy-admin"`)
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	n, err := s.cache.Purge(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("purge category cache")
		http.Error(w, `{"error":"purge_failed"}`, http.StatusInternalServerError)
		return
	}
	hlog.FromRequest(r).Info().Int64("purged", n).Msg("category cache purged")
	_ = json.NewEncoder(w).Encode(map[string]int64{"purged": n})
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}
