package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinet/pinet/internal/database"
	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/middleware"
)

// RouterOptions carries what the routes need besides the store.
type RouterOptions struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

func NewRouter(store database.Store, log *logger.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET("/health", Health(store, log))

	r.GET("/pins", GetPins(store, log))
	r.POST("/pins", middleware.OptionalUserAuth(opts.JWTSecret, log), CreatePin(store, log))

	users := r.Group("/users")
	{
		users.POST("/register", Register(store, log))
		users.POST("/login", Login(store, log, opts.JWTSecret, opts.AccessTokenTTL))
		users.GET("/me", middleware.UserAuth(opts.JWTSecret, log), GetMe(store, log))
	}

	return r
}
