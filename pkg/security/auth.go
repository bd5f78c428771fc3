package security

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	secretOnce  sync.Once
	secretBytes []byte
)

func jwtSecret() []byte {
	secretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}
		secretBytes = []byte(secret)
	})
	return secretBytes
}

// GetUserIDFromToken reads the authenticated user ID placed on the context by
// JWTMiddleware. Claims decoded from JSON arrive as float64.
func GetUserIDFromToken(c *gin.Context) (*int, error) {
	value, exists := c.Get("userID")
	if !exists {
		return nil, fmt.Errorf("no authenticated user on request")
	}

	switch v := value.(type) {
	case float64:
		id := int(v)
		return &id, nil
	case int:
		id := v
		return &id, nil
	default:
		return nil, fmt.Errorf("userID claim has unexpected type %T", value)
	}
}
