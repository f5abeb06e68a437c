package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/slidegen/internal/domain/history"
)

// ListPresentations returns the caller's generation history, newest first.
func (h *Handler) ListPresentations(c *gin.Context) {
	userID := history.AnonymousUserID
	if claims, ok := getClaims(c); ok {
		userID = claims.UserID
	}
	entries, err := h.historySvc.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, domainError(err, "history_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "presentations": entries})
}

// TrendingTopics returns the most generated topics.
func (h *Handler) TrendingTopics(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.topicsSvc.Trending(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, domainError(err, "topics_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": items})
}
