package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/security"
	"github.com/bizdir/backend/internal/server/resp"
)

const CtxAdminClaims = "admin_claims"

// Denylist reports revoked token ids; nil disables the check.
type Denylist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireAdmin accepts `Authorization: Bearer <admin JWT>`.
func RequireAdmin(jwtm *security.JWTManager, denylist Denylist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		token, found := strings.CutPrefix(raw, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			resp.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := jwtm.Parse(token)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		if denylist != nil {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("token denylist lookup failed", zap.Error(err))
				resp.Abort(c, http.StatusServiceUnavailable, "service unavailable")
				return
			}
			if revoked {
				resp.Abort(c, http.StatusUnauthorized, "token revoked")
				return
			}
		}
		c.Set(CtxAdminClaims, claims)
		c.Next()
	}
}

func AdminClaimsFrom(c *gin.Context) (security.AdminClaims, bool) {
	v, ok := c.Get(CtxAdminClaims)
	if !ok {
		return security.AdminClaims{}, false
	}
	claims, ok := v.(security.AdminClaims)
	return claims, ok
}
