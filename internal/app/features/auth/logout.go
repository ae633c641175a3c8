package auth

import (
	"net/http"
	"strings"

	"github.com/dalemusser/dintask/internal/app/system/respond"
	"go.uber.org/zap"
)

// HandleLogout revokes the presented bearer token. The token id sits in
// the denylist until its natural expiry, so a stolen copy dies with it.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		respond.Unauthorized(w, "")
		return
	}

	claims, err := h.Tokens.Parse(header[len(prefix):])
	if err != nil {
		// Already invalid or revoked; logout is idempotent.
		respond.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
		return
	}

	if err := h.Tokens.Revoke(claims); err != nil {
		h.Log.Error("logout: revoke token", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
