package middleware

import (
	"net/http"

	"memeboard/internal/loader"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const SessionUserKey = "user_id"
const CheckUserKey = "user"
const LoadersKey = "loaders"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Next()
	}
}

// LoadUser copies the session's user id into the request context.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id := toUint(session.Get(SessionUserKey)); id != 0 {
			c.Set(CheckUserKey, id)
		}
		c.Next()
	}
}

// Loaders gives every request its own batch loaders.
func Loaders(conn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(LoadersKey, loader.NewLoaders(conn))
		c.Next()
	}
}

// CurrentUserID returns 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(CheckUserKey); ok {
		return toUint(v)
	}
	return 0
}

func GetLoaders(c *gin.Context) *loader.Loaders {
	if v, ok := c.Get(LoadersKey); ok {
		if ls, ok := v.(*loader.Loaders); ok {
			return ls
		}
	}
	return nil
}

func toUint(v interface{}) uint {
	switch id := v.(type) {
	case uint:
		return id
	case int:
		if id > 0 {
			return uint(id)
		}
	case int64:
		if id > 0 {
			return uint(id)
		}
	case float64:
		if id > 0 {
			return uint(id)
		}
	}
	return 0
}
