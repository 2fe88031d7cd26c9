// Profile HTTP handlers.
//
// This file exposes the profile endpoints:
//   - GET    /users/me   (own profile; lazily evaluates achievements)
//   - PUT    /users/me   (create or update own profile)
//   - GET    /users/{id} (public profile summary)
//   - DELETE /users/me   (account deletion cascade)
//   - GET    /achievements (the fixed catalog)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/services"
)

// ProfileResponse wraps a full own-profile view.
type ProfileResponse struct {
	Profile *domain.UserProfile `json:"profile"`
	// NewAchievements lists ids unlocked by this request, if any.
	NewAchievements []string `json:"new_achievements,omitempty"`
}

// SummaryResponse wraps a public profile projection.
type SummaryResponse struct {
	Profile domain.Summary `json:"profile"`
}

// CatalogResponse wraps the achievement catalog.
type CatalogResponse struct {
	Achievements []domain.Achievement `json:"achievements"`
}

// GetMe godoc
// @ID          getMe
// @Summary     Get my profile
// @Description Returns the caller's full profile. Achievement predicates are evaluated
// @Description on the way out; anything newly unlocked is persisted and reported.
// @Tags        Profiles
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
//
// @Success     200  {object}  handlers.ProfileResponse
// @Failure     404  {object}  handlers.ErrorResponse  "No profile yet"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/me [get]
func (h *Handlers) GetMe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	ctx := c.Request.Context()

	h.Profiles.Touch(ctx, uid)
	p, err := h.Profiles.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "profile not found")
			return
		}
		failInternal(c, ErrCodeInternal, err)
		return
	}

	newIDs, err := h.Achievements.DecorateProfile(ctx, p)
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, ProfileResponse{Profile: p, NewAchievements: newIDs})
}

// PutMe godoc
// @ID          putMe
// @Summary     Create or update my profile
// @Description Validates and stores the caller's profile. Creates it on first use
// @Description (201), replaces the writable fields afterwards (200). Achievements and
// @Description activity counters are never writable through this endpoint.
// @Tags        Profiles
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
// @Param       body       body    services.ProfileInput  true  "Profile fields"
//
// @Success     200  {object}  handlers.ProfileResponse  "Updated"
// @Success     201  {object}  handlers.ProfileResponse  "Created"
// @Failure     400  {object}  handlers.ErrorResponse    "Validation failure"
// @Failure     500  {object}  handlers.ErrorResponse    "Internal error"
// @Router      /users/me [put]
func (h *Handlers) PutMe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid profile payload")
		return
	}
	ctx := c.Request.Context()

	p, err := h.Profiles.Update(ctx, uid, in)
	status := http.StatusOK
	if errors.Is(err, services.ErrProfileNotFound) {
		p, err = h.Profiles.Create(ctx, uid, in)
		status = http.StatusCreated
	}
	if err != nil {
		if errors.Is(err, services.ErrInvalidProfile) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, status, ProfileResponse{Profile: p})
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a public profile
// @Description Returns the public projection of another user's profile.
// @Tags        Profiles
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
// @Param       id         path    string  true  "User ID"
//
// @Success     200  {object}  handlers.SummaryResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown user"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	if _, okUser := requireUser(c); !okUser {
		return
	}
	p, err := h.Profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "profile not found")
			return
		}
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, SummaryResponse{Profile: p.Summary()})
}

// DeleteMe godoc
// @ID          deleteMe
// @Summary     Delete my account
// @Description Removes the caller's profile and everything attached to it: messages,
// @Description matches, likes in both directions, and stored idempotency records.
// @Description Deleting an already-deleted account succeeds, so retries are safe.
// @Tags        Profiles
//
// @Param       X-User-ID  header  string  true  "Caller user ID"  example(user123)
//
// @Success     204  "Deleted"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/me [delete]
func (h *Handlers) DeleteMe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	if err := h.Accounts.Delete(c.Request.Context(), uid); err != nil {
		failInternal(c, ErrCodeDeleteFailed, err)
		return
	}
	noContent(c)
}

// GetAchievementCatalog godoc
// @ID          getAchievementCatalog
// @Summary     List the achievement catalog
// @Description Returns the fixed ten-entry achievement catalog in display order.
// @Tags        Profiles
// @Produce     json
//
// @Success     200  {object}  handlers.CatalogResponse
// @Router      /achievements [get]
func (h *Handlers) GetAchievementCatalog(c *gin.Context) {
	ok(c, http.StatusOK, CatalogResponse{Achievements: h.Achievements.Catalog()})
}
