package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/identity"
)

type infoKey struct{}

// requestInfo lets inner handlers report the caller back to requestLogger.
type requestInfo struct {
	userID string
}

func withRequestInfo(ctx context.Context, info *requestInfo) context.Context {
	return context.WithValue(ctx, infoKey{}, info)
}

// requireAuth resolves the bearer token on every request and rejects the
// request with 401 before next runs if that fails.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.writeError(w, r, fmt.Errorf("no bearer token: %w", domain.ErrUnauthenticated))
			return
		}

		user, err := s.svc.Auth.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				s.logger.Error("token resolution failed", "error", err)
				err = fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
			}
			s.writeError(w, r, err)
			return
		}

		if info, ok := r.Context().Value(infoKey{}).(*requestInfo); ok {
			info.userID = user.ID
		}
		next(w, r.WithContext(identity.WithUser(r.Context(), user, token)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// userID returns the id placed by requireAuth.
func userID(r *http.Request) string {
	if u := identity.UserFrom(r.Context()); u != nil {
		return u.ID
	}
	return ""
}
