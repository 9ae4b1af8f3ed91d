package middelware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fieldserve-backend/models"
	"fieldserve-backend/utils/logger"
)

// JWTManager validates bearer tokens issued by the identity service. This
// service never issues tokens itself; it only verifies the signature and
// extracts the actor identity and role.
type JWTManager struct {
	Config *models.Config
	Logger logger.Logger
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger) *JWTManager {
	return &JWTManager{
		Config: cfg,
		Logger: log,
	}
}

// ValidateToken validates a JWT token and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return []byte(j.Config.JWTSecret), nil
	})
	if err != nil {
		j.Logger.Errorf("Failed to parse JWT token: %v", err)
		return nil, err
	}

	if !token.Valid {
		j.Logger.Error("Invalid JWT token")
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok {
		j.Logger.Error("Failed to extract JWT claims")
		return nil, fmt.Errorf("invalid claims")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		j.Logger.Error("JWT token expired")
		return nil, fmt.Errorf("token expired")
	}
	if claims.NotBefore != nil && claims.NotBefore.After(time.Now()) {
		j.Logger.Error("JWT token not yet valid")
		return nil, fmt.Errorf("token not yet valid")
	}

	if claims.ActorID == "" || claims.Role == "" {
		j.Logger.Error("JWT token missing actor identity")
		return nil, fmt.Errorf("token missing actor identity")
	}

	j.Logger.Debugf("Successfully validated JWT token for actor: %s (%s)", claims.ActorID, claims.Role)
	return claims, nil
}

// AuthMiddleware validates the JWT token from the Authorization header and
// stores the resolved actor on the request context.
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			j.Logger.Error("Missing Authorization header")
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Missing Authorization header",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: "Authorization header is required",
				},
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			j.Logger.Error("Invalid Authorization header format")
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Invalid Authorization header format",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: "Authorization header must be in format: Bearer <token>",
				},
			})
			c.Abort()
			return
		}

		claims, err := j.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			j.Logger.Errorf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired token",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: err.Error(),
				},
			})
			c.Abort()
			return
		}

		c.Set("jwt_claims", claims)
		c.Set("actor_id", claims.ActorID)
		c.Set("actor_role", string(claims.Role))
		c.Next()
	}
}

// RequireRole restricts a route to the given roles. It must run after
// AuthMiddleware.
func (j *JWTManager) RequireRole(roles ...models.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get("jwt_claims")
		jwtClaims, ok := claims.(*models.JWTClaims)
		if !exists || !ok {
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Authentication required",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: "Actor not authenticated",
				},
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if jwtClaims.Role == role {
				c.Next()
				return
			}
		}

		j.Logger.Warnf("Actor %s with role %s denied access to %s", jwtClaims.ActorID, jwtClaims.Role, c.FullPath())
		c.JSON(http.StatusForbidden, models.APIResponse{
			Status:  "error",
			Code:    http.StatusForbidden,
			Message: "Insufficient permissions",
			Error: &models.APIError{
				Type:    "AuthorizationError",
				Details: "Actor role is not permitted for this operation",
			},
		})
		c.Abort()
	}
}
