// Package handlers provides the transport-thin HTTP handlers of the public
// API. Handlers validate and normalize inputs, delegate to the service layer,
// and translate sentinel errors into the stable error envelope.
package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/services"
	"github.com/jooseepaardoo/gymconnect-backend/internal/utils"
)

// Handlers bundles the application services behind the HTTP endpoints.
type Handlers struct {
	DB *gorm.DB

	Profiles      *services.ProfileService
	Achievements  *services.AchievementService
	Interests     *services.InterestService
	Conversations *services.ConversationService
	Feed          *services.FeedService
	Accounts      *services.AccountService

	// AdmirerPageSize bounds GET /likes/received pages. Zero means 20.
	AdmirerPageSize int
	// IdempotencyTTL bounds how long an Idempotency-Key replay stays valid.
	IdempotencyTTL time.Duration
}

// New wires the handler set.
func New(db *gorm.DB, profiles *services.ProfileService, achievements *services.AchievementService,
	interests *services.InterestService, conversations *services.ConversationService,
	feed *services.FeedService, accounts *services.AccountService) *Handlers {
	return &Handlers{
		DB:            db,
		Profiles:      profiles,
		Achievements:  achievements,
		Interests:     interests,
		Conversations: conversations,
		Feed:          feed,
		Accounts:      accounts,
	}
}

// userID extracts the authenticated subject id from the Gin context (set by
// upstream auth middleware), falling back to the X-User-ID header the fronting
// proxy injects. ok is false when no identity is present.
func userID(c *gin.Context) (string, bool) {
	if v, okv := c.Get("userID"); okv {
		if s, oks := v.(string); oks && s != "" {
			return s, true
		}
	}
	if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
		return h, true
	}
	return "", false
}

// requireUser resolves the caller identity or writes a 401.
func requireUser(c *gin.Context) (string, bool) {
	uid, okID := userID(c)
	if !okID {
		fail(c, 401, ErrCodeUnauthorized, "X-User-ID required")
		return "", false
	}
	return uid, true
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginationMeta assembles the metadata block for a page.
func paginationMeta(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
