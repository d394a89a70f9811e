package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/devconnector/internal/providers/github"
	"github.com/yoockh/devconnector/internal/utils"
)

type GithubHandler struct {
	repos github.Provider
}

func NewGithubHandler(repos github.Provider) *GithubHandler {
	return &GithubHandler{repos: repos}
}

// Repos relays the upstream repository listing as-is.
func (h *GithubHandler) Repos(c *gin.Context) {
	const op = "GithubHandler.Repos"

	body, err := h.repos.Repos(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			writeError(c, utils.E(utils.CodeNotFound, op, "No Github profile found", err))
			return
		}
		writeError(c, utils.E(utils.CodeInternal, op, "github request failed", err))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
