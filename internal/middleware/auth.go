package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/pkg/response"
	"schoolhub/internal/pkg/token"
	"schoolhub/internal/rbac"
)

// Context keys set for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxSchoolID = "school_id"
)

// UserFinder reloads the principal on every request so a still-valid
// access token issued before a deactivation stops working within the
// access-token window. Returns (nil, nil) when absent or inactive.
type UserFinder interface {
	FindActiveByID(ctx context.Context, id int64) (*domain.User, error)
}

// Authenticate verifies the bearer token and the principal's active
// status, then injects the request actor. Used by endpoints that need
// identity but not the permission table (logout).
func Authenticate(tokens *token.Manager, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, tokens, users)
		if !ok {
			return
		}
		inject(c, claims)
		c.Next()
	}
}

// Authorize is the full per-request gate: token verification, active
// re-check, role lookup, school scoping and the path/method permission
// table, in that order. Superadmin skips the path/method check.
func Authorize(tokens *token.Manager, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, tokens, users)
		if !ok {
			return
		}

		role, err := rbac.ParseRole(claims.Role)
		if err != nil {
			response.AbortError(c, err)
			return
		}

		if role == domain.RoleSchoolAdmin {
			if requested := requestedSchoolID(c); requested != nil {
				if claims.SchoolID == nil || *requested != *claims.SchoolID {
					response.AbortError(c, fault.ErrSchoolAccess)
					return
				}
			}
		}

		if err := rbac.Allow(role, c.Request.URL.Path, c.Request.Method); err != nil {
			response.AbortError(c, err)
			return
		}

		inject(c, claims)
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *token.Manager, users UserFinder) (*token.AccessClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		response.AbortError(c, fault.ErrNoToken)
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		response.AbortError(c, fault.ErrNoToken)
		return nil, false
	}

	claims, err := tokens.VerifyAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		response.AbortError(c, err)
		return nil, false
	}

	user, err := users.FindActiveByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.AbortError(c, fault.OperationFailed("Authorization failed"))
		return nil, false
	}
	if user == nil {
		response.AbortError(c, fault.ErrUserInactive)
		return nil, false
	}

	return claims, true
}

func inject(c *gin.Context, claims *token.AccessClaims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxSchoolID, claims.SchoolID)
}

// requestedSchoolID pulls the school the request is acting on, from
// the route param first, then from a JSON body (which is re-buffered
// so handlers can still bind it).
func requestedSchoolID(c *gin.Context) *int64 {
	if raw := c.Param("schoolId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return &id
		}
		return nil
	}

	if c.Request.Body == nil || !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var probe struct {
		SchoolID *int64 `json:"schoolId"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	return probe.SchoolID
}

// ActorFrom rebuilds the injected actor for service calls.
func ActorFrom(c *gin.Context) rbac.Actor {
	actor := rbac.Actor{
		UserID: c.GetInt64(CtxUserID),
		Role:   domain.Role(c.GetString(CtxRole)),
	}
	if v, ok := c.Get(CtxSchoolID); ok {
		if id, ok := v.(*int64); ok {
			actor.SchoolID = id
		}
	}
	return actor
}
