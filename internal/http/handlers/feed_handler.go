// Feed HTTP handlers.
//
// This file exposes the discovery feed:
//   - GET /feed       (fresh shuffled candidate snapshot, never includes the caller)
//   - GET /feed/next  (advance within the latest snapshot; reports exhaustion)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
)

// FeedResponse wraps a candidate snapshot.
type FeedResponse struct {
	Candidates []domain.Summary `json:"candidates"`
}

// FeedNextResponse carries the next candidate, or done=true when the snapshot
// is exhausted.
type FeedNextResponse struct {
	Candidate *domain.Summary `json:"candidate,omitempty"`
	Done      bool            `json:"done"`
}

// GetFeed godoc
// @ID          getFeed
// @Summary     Get a discovery feed snapshot
// @Description Returns a fresh shuffled snapshot of candidate profiles. The caller is
// @Description never part of their own feed. An empty list means nobody is left to show.
// @Tags        Feed
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
//
// @Success     200  {object}  handlers.FeedResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /feed [get]
func (h *Handlers) GetFeed(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	h.Profiles.Touch(c.Request.Context(), uid)
	snap, err := h.Feed.Fetch(c.Request.Context(), uid)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, FeedResponse{Candidates: snap})
}

// NextFeed godoc
// @ID          nextFeed
// @Summary     Advance the discovery feed
// @Description Returns the candidate after `current` in the caller's latest snapshot.
// @Description When the snapshot is exhausted the response carries done=true; that is
// @Description the feed's terminal state, not an error.
// @Tags        Feed
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Caller user ID"  example(user123)
// @Param       current    query   string  false  "Candidate currently shown"
//
// @Success     200  {object}  handlers.FeedNextResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /feed/next [get]
func (h *Handlers) NextFeed(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	next, more, err := h.Feed.Next(c.Request.Context(), uid, c.Query("current"))
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	if !more {
		ok(c, http.StatusOK, FeedNextResponse{Done: true})
		return
	}
	ok(c, http.StatusOK, FeedNextResponse{Candidate: &next})
}
