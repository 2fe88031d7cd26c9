// Match HTTP handlers.
//
// This file exposes the conversation list:
//   - GET /matches (the caller's matches with counterpart profile summaries)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jooseepaardoo/gymconnect-backend/internal/services"
)

// ListMatchesResponse wraps the caller's conversation list.
type ListMatchesResponse struct {
	Conversations []services.Conversation `json:"conversations"`
}

// ListMatches godoc
// @ID          listMatches
// @Summary     List my matches
// @Description Returns every match of the caller with the counterpart's public profile,
// @Description most recent first. Matches whose counterpart deleted their account are
// @Description omitted.
// @Tags        Matches
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
//
// @Success     200  {object}  handlers.ListMatchesResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /matches [get]
func (h *Handlers) ListMatches(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	convs, err := h.Conversations.ListConversations(c.Request.Context(), uid)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, ListMatchesResponse{Conversations: convs})
}
