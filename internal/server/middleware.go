package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obsmiddleware "github.com/smallbiznis/estate/internal/observability/logger"
)

// actorID reads the caller identity forwarded by the gateway. An absent
// header yields 0.
func actorID(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.GetHeader(obsmiddleware.HeaderActorID))
	if raw == "" {
		return 0, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id <= 0 {
		return 0, ErrInvalidActor
	}
	return id, nil
}
