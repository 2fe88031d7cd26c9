// Like HTTP handlers.
//
// This file exposes the REST endpoints for interests ("likes"):
//   - POST /likes            (record interest; may resolve a match)
//   - GET  /likes/received   (who liked me, cursor-paginated)
//   - GET  /likes/count      (cache-first admirer count)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/services"
	"github.com/jooseepaardoo/gymconnect-backend/internal/utils"
)

// PostLikeRequest is the JSON payload for recording interest.
type PostLikeRequest struct {
	// TargetID is the user being liked.
	TargetID string `json:"target_id" binding:"required,min=1" example:"user456"`
}

// PostLikeResponse wraps the recorded interest and, when reciprocity
// completed, the resulting match.
type PostLikeResponse struct {
	Interest *domain.Interest `json:"interest"`
	// Match is present only when mutual interest resolved into a match.
	Match *domain.Match `json:"match,omitempty"`
}

// ListAdmirersResponse is a cursor-paginated page of users who liked the caller.
type ListAdmirersResponse struct {
	Admirers []services.Admirer `json:"admirers"`
	// NextToken pages forward; absent on the last page.
	NextToken *string `json:"next_token,omitempty"`
}

// LikeCountResponse carries the admirer count.
type LikeCountResponse struct {
	Count int64 `json:"count"`
}

// PostLike godoc
// @ID          postLike
// @Summary     Like another user
// @Description Records the caller's interest in target_id. Repeats are idempotent and
// @Description return the original interest. When the target already liked the caller,
// @Description the response also carries the match the pair resolved into.
// @Tags        Likes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
// @Param       body       body    handlers.PostLikeRequest  true  "Like payload"
//
// @Success     201  {object}  handlers.PostLikeResponse  "Interest recorded"
// @Failure     400  {object}  handlers.ErrorResponse     "Self-like or bad payload"
// @Failure     404  {object}  handlers.ErrorResponse     "Target not found"
// @Failure     500  {object}  handlers.ErrorResponse     "Internal error"
// @Router      /likes [post]
func (h *Handlers) PostLike(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var req PostLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "target_id required")
		return
	}

	interest, match, err := h.Interests.Record(c.Request.Context(), uid, req.TargetID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfInterest):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot like yourself")
		case errors.Is(err, services.ErrTargetNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "target profile not found")
		default:
			failInternal(c, ErrCodeLikeFailed, err)
		}
		return
	}
	ok(c, http.StatusCreated, PostLikeResponse{Interest: interest, Match: match})
}

// ListAdmirers godoc
// @ID          listAdmirers
// @Summary     List users who liked me
// @Description Returns the users who recorded interest in the caller, newest first,
// @Description with opaque cursor pagination.
// @Tags        Likes
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Caller user ID"  example(user123)
// @Param       token      query   string  false  "Opaque page token from a previous response"
// @Param       limit      query   int     false  "Page size"  minimum(1) maximum(100)
//
// @Success     200  {object}  handlers.ListAdmirersResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed page token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /likes/received [get]
func (h *Handlers) ListAdmirers(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}

	limit := h.AdmirerPageSize
	if limit <= 0 {
		limit = 20
	}
	if q := utils.AtoiDefault(c.Query("limit"), 0); q > 0 && q <= 100 {
		limit = q
	}
	var token *string
	if t := c.Query("token"); t != "" {
		token = &t
	}

	admirers, next, err := h.Interests.ListAdmirers(c.Request.Context(), uid, token, limit)
	if err != nil {
		if token != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid page token")
			return
		}
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, ListAdmirersResponse{Admirers: admirers, NextToken: next})
}

// CountLikes godoc
// @ID          countLikes
// @Summary     Count users who liked me
// @Description Returns how many users have liked the caller. Served from the cache when
// @Description warm, repopulated from the database on a miss.
// @Tags        Likes
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
//
// @Success     200  {object}  handlers.LikeCountResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /likes/count [get]
func (h *Handlers) CountLikes(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	n, err := h.Interests.CountAdmirers(c.Request.Context(), uid)
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, LikeCountResponse{Count: n})
}
