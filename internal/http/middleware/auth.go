package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/gigpay/internal/auth"
	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/repository"
)

const principalKey = "principal"

// Auth resolves the caller to a profile before any domain logic runs.
// Accepted identities, in order: a Bearer access token carrying the
// profile id, or the plain profile_id header. Unknown or missing
// identity ends the request with 401.
func Auth(parser *auth.Parser, profiles *repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := resolveProfileID(c, parser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid credentials"})
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), profileID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown profile"})
			return
		}

		c.Set(principalKey, model.Principal{
			ProfileID: profile.ID,
			Type:      profile.Type,
		})
		c.Next()
	}
}

func resolveProfileID(c *gin.Context, parser *auth.Parser) (uuid.UUID, bool) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		profileID, err := parser.Parse(token)
		if err != nil {
			return uuid.Nil, false
		}
		return profileID, true
	}

	raw := strings.TrimSpace(c.GetHeader("profile_id"))
	if raw == "" {
		return uuid.Nil, false
	}
	profileID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return profileID, true
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}
