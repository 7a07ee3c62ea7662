package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/acrodash/internal/auth"
	"github.com/kiliankoe/acrodash/internal/game"
	"github.com/kiliankoe/acrodash/internal/stats"
)

func routes(r *gin.Engine, rm *game.RoomManager, store stats.Store, tokens *auth.TokenManager, devLogin bool) {
	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	r.GET("/api/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, rm.Stats())
	})

	r.GET("/api/stats/:username", func(c *gin.Context) {
		ps, err := store.Lookup(c.Request.Context(), c.Param("username"))
		if errors.Is(err, stats.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player_not_found"})
			return
		}
		if err != nil {
			log.Error().Err(err).Str("user", c.Param("username")).Msg("stats lookup")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}
		c.JSON(http.StatusOK, ps)
	})

	if devLogin {
		type tokenReq struct {
			Username string `json:"username"`
		}
		r.POST("/api/dev/token", func(c *gin.Context) {
			var req tokenReq
			if err := c.BindJSON(&req); err != nil {
				return
			}
			tok, err := tokens.Generate(req.Username, time.Now())
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_username"})
				return
			}
			c.SetCookie(auth.CookieName, tok, 0, "/", "", false, true)
			c.JSON(http.StatusOK, gin.H{"token": tok})
		})
	}
}
