package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/devconnector/internal/api/handlers"
	"github.com/yoockh/devconnector/internal/api/middleware"
)

type Deps struct {
	Profile *handlers.ProfileHandler
	Auth    *handlers.AuthHandler
	Github  *handlers.GithubHandler

	Tokens middleware.TokenDecoder
	Logger *logrus.Logger
}

// NewRouter builds the engine with recovery and request logging installed.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		_ = c.Error(fmt.Errorf("panic: %v", recovered))
		c.String(http.StatusInternalServerError, "Server Error")
		c.Abort()
	}))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	private := middleware.TokenAuth(d.Tokens, d.Logger)
	api := r.Group("/api")

	api.POST("/users", d.Auth.Register)
	api.POST("/auth", d.Auth.Login)
	api.GET("/auth", private, d.Auth.Me)

	profile := api.Group("/profile")
	profile.GET("", d.Profile.List)
	profile.GET("/user/:user_id", d.Profile.GetByUserID)
	profile.GET("/github/:username", d.Github.Repos)

	profile.GET("/me", private, d.Profile.Me)
	profile.POST("", private, d.Profile.Upsert)
	profile.DELETE("", private, d.Profile.DeleteAccount)

	profile.PUT("/experience", private, d.Profile.AddExperience)
	profile.DELETE("/experience/:experience_id", private, d.Profile.RemoveExperience)
	profile.PUT("/education", private, d.Profile.AddEducation)
	profile.DELETE("/education/:education_id", private, d.Profile.RemoveEducation)
}
