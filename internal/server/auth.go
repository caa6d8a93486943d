package server

import (
	"net/http"
	"strings"
)

// authorize checks the bearer key when keys are configured. With no keys
// configured the server is open, which is the expected deployment behind a
// private gateway.
func (s *Server) authorize(r *http.Request) bool {
	if len(s.keys) == 0 {
		return true
	}
	key, ok := parseBearerToken(r.Header.Get("Authorization"))
	if !ok {
		return false
	}
	_, ok = s.keys[key]
	return ok
}

func parseBearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
