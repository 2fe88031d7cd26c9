// Message HTTP handlers.
//
// This file exposes REST endpoints for conversation messages:
//   - POST /matches/{id}/messages         (send a message)
//   - GET  /matches/{id}/messages         (paginated history)
//   - GET  /matches/{id}/messages/stream  (SSE: backlog, then live)
//
// Handlers are transport-thin:
//   - validate & normalize inputs
//   - delegate to ConversationService
//   - implement idempotency semantics for sends
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// send exists for (user, match, key), the handler returns that recorded
// message and sets `Idempotency-Replayed: true`.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/http/middleware"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
	"github.com/jooseepaardoo/gymconnect-backend/internal/services"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for sending a message.
type PostMessageRequest struct {
	// Body is the message text. It must be non-empty after trimming.
	Body string `json:"body" binding:"required,min=1" example:"Leg day tomorrow at 7?"`
}

// PostMessageResponse is the JSON envelope for a stored message.
type PostMessageResponse struct {
	Message *domain.Message `json:"message"`
}

// ListMessagesResponse contains a page of messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeBody normalizes message text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeBody(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// failConversation maps conversation sentinel errors onto the envelope.
func failConversation(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "match not found")
	case errors.Is(err, services.ErrNotParticipant):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this match")
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
	case errors.Is(err, services.ErrMessageTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body too long")
	default:
		failInternal(c, fallbackCode, err)
	}
}

//
// Handlers
//

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message in a match
// @Description Appends a message to the match's conversation. Only the two participants
// @Description may send. Supports idempotency via the Idempotency-Key header
// @Description (same key → same stored message).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "Caller user ID"  example(user123)
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries (UUID recommended)"
// @Param       id               path    string  true   "Match ID (UUID)"  format(uuid)
// @Param       body             body    handlers.PostMessageRequest  true  "Message payload"
//
// @Success     201  {object}  handlers.PostMessageResponse  "Stored message"
// @Failure     400  {object}  handlers.ErrorResponse        "Empty body"
// @Failure     403  {object}  handlers.ErrorResponse        "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse        "Match not found"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /matches/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	matchID := c.Param("id")
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}
	body := sanitizeBody(req.Body)
	if body == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.DB != nil {
		if rec, err := repo.GetIdempotency(ctx, h.DB, uid, matchID, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := repo.GetMessage(ctx, h.DB, rec.MessageID); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, rec.Status, PostMessageResponse{Message: prev})
				return
			}
		}
	}

	m, err := h.Conversations.Send(ctx, uid, matchID, body)
	if err != nil {
		failConversation(c, err, ErrCodeSendFailed)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && h.DB != nil {
		ttl := h.IdempotencyTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		_, _ = repo.CreateIdempotency(ctx, h.DB, uid, matchID, idemKey, m.ID, http.StatusCreated, ttl)
	}

	ok(c, http.StatusCreated, PostMessageResponse{Message: m})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a match
// @Description Returns a paginated slice of the match's conversation in send order.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
// @Param       id         path    string  true  "Match ID (UUID)"  format(uuid)
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListMessagesResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Match not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /matches/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	matchID := c.Param("id")
	page, pageSize := clampPagination(c)

	msgs, total, err := h.Conversations.History(c.Request.Context(), uid, matchID, (page-1)*pageSize, pageSize)
	if err != nil {
		failConversation(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   msgs,
		Pagination: paginationMeta(page, pageSize, total),
	})
}

// StreamMessages godoc
// @ID          streamMessages
// @Summary     Stream a match's conversation
// @Description Server-sent events: replays the full stored conversation in order, then
// @Description pushes every new message live. One total order, no gaps, no duplicates.
// @Description The stream ends when the client disconnects.
// @Tags        Messages
// @Produce     text/event-stream
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
// @Param       id         path    string  true  "Match ID (UUID)"  format(uuid)
//
// @Success     200  {string}  string  "event stream"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Match not found"
// @Router      /matches/{id}/messages/stream [get]
func (h *Handlers) StreamMessages(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	matchID := c.Param("id")

	sub, err := h.Conversations.Subscribe(c.Request.Context(), uid, matchID)
	if err != nil {
		failConversation(c, err, ErrCodeStreamFailed)
		return
	}
	defer sub.Close()

	hdr := c.Writer.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case m, open := <-sub.C():
			if !open {
				return
			}
			payload, err := json.Marshal(m)
			if err != nil {
				continue
			}
			if _, err := c.Writer.WriteString("id: " + m.ID + "\nevent: message\ndata: " + string(payload) + "\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
