package httpserver

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type actor struct {
	UserID string
	Role   string
}

// resolveActor identifies the caller. A Bearer token signed with the shared
// HMAC secret wins; the X-User-Id / X-User-Role headers remain as the
// gateway-trusted fallback for internal traffic and tests.
func (s *Server) resolveActor(r *http.Request) actor {
	if token := bearerToken(r); token != "" && s.jwtSecret != "" {
		if resolved, ok := s.actorFromToken(token); ok {
			return resolved
		}
	}

	return actor{
		UserID: strings.TrimSpace(r.Header.Get("X-User-Id")),
		Role:   strings.TrimSpace(r.Header.Get("X-User-Role")),
	}
}

func (s *Server) actorFromToken(raw string) (actor, bool) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		s.logger.Warn("rejected bearer token",
			"event", "http_auth_token_rejected",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		return actor{}, false
	}

	subject, _ := claims.GetSubject()
	role, _ := claims["role"].(string)
	if strings.TrimSpace(subject) == "" {
		return actor{}, false
	}
	return actor{UserID: subject, Role: role}, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
