package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/http/middleware"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
	"github.com/jooseepaardoo/gymconnect-backend/internal/services"
	"github.com/jooseepaardoo/gymconnect-backend/internal/stream"
)

// newTestEnv builds the handler set on a fresh in-memory database and mounts
// it on a minimal engine mirroring the production pipeline (identity shim +
// idempotency validator, nothing else).
func newTestEnv(t *testing.T) (*gin.Engine, *Handlers, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	hub := stream.NewHub()
	t.Cleanup(hub.Shutdown)

	profiles := &services.ProfileService{DB: db}
	achievements := &services.AchievementService{DB: db}
	interests := &services.InterestService{DB: db}
	conversations := &services.ConversationService{DB: db, Hub: hub, MaxBodyRunes: 2000}
	feed := &services.FeedService{DB: db, PageSize: 25}
	accounts := &services.AccountService{DB: db, Feed: feed}
	h := New(db, profiles, achievements, interests, conversations, feed, accounts)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-User-ID"); uid != "" {
			c.Set("userID", uid)
		}
		c.Next()
	})
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))

	r.GET("/users/me", h.GetMe)
	r.PUT("/users/me", h.PutMe)
	r.DELETE("/users/me", h.DeleteMe)
	r.GET("/users/:id", h.GetUser)
	r.POST("/likes", h.PostLike)
	r.GET("/likes/received", h.ListAdmirers)
	r.GET("/likes/count", h.CountLikes)
	r.GET("/matches", h.ListMatches)
	r.GET("/matches/:id/messages", h.ListMessages)
	r.POST("/matches/:id/messages", h.PostMessage)
	r.GET("/matches/:id/messages/stream", h.StreamMessages)
	r.GET("/feed", h.GetFeed)
	r.GET("/feed/next", h.NextFeed)
	r.GET("/achievements", h.GetAchievementCatalog)

	return r, h, db
}

// request performs a JSON request as uid and decodes the body into out when
// out is non-nil.
func request(t *testing.T, r *gin.Engine, method, path, uid string, payload any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if uid != "" {
		req.Header.Set("X-User-ID", uid)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w
}

// decode unmarshals a recorded JSON body into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// seedProfile inserts a minimal valid profile straight through the repo.
func seedProfile(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	p := &domain.UserProfile{
		ID:          id,
		DisplayName: "User " + id,
		Objectives:  []string{"strength"},
		Experience:  domain.ExperienceBeginner,
	}
	if err := repo.CreateProfile(context.Background(), db, p); err != nil {
		t.Fatalf("seed profile %s: %v", id, err)
	}
}

// seedMatch creates a match between a and b directly.
func seedMatch(t *testing.T, db *gorm.DB, a, b string) string {
	t.Helper()
	m, _, err := repo.CreateMatch(context.Background(), db, a, b)
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return m.ID
}

func TestRequireUser_MissingIdentity(t *testing.T) {
	r, _, _ := newTestEnv(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/users/me"},
		{http.MethodPost, "/likes"},
		{http.MethodGet, "/matches"},
		{http.MethodGet, "/feed"},
		{http.MethodDelete, "/users/me"},
	} {
		w := request(t, r, tc.method, tc.path, "", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without identity = %d, want 401", tc.method, tc.path, w.Code)
		}
		var er ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if er.Code != ErrCodeUnauthorized {
			t.Fatalf("code = %q", er.Code)
		}
	}
}

func Test_clampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, 20},
		{"?page=3&page_size=7", 3, 7},
		{"?page=0&page_size=0", 1, 1},
		{"?page=-2&page_size=1000", 1, 100},
		{"?page=abc&page_size=xyz", 1, 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)
		page, size := clampPagination(c)
		if page != tc.wantPage || size != tc.wantPageSize {
			t.Fatalf("clampPagination(%q) = (%d,%d), want (%d,%d)",
				tc.query, page, size, tc.wantPage, tc.wantPageSize)
		}
	}
}

func Test_paginationMeta(t *testing.T) {
	m := paginationMeta(2, 10, 35)
	if m.TotalPages != 4 || !m.HasNext || m.Total != 35 {
		t.Fatalf("meta = %+v", m)
	}
	last := paginationMeta(4, 10, 35)
	if last.HasNext {
		t.Fatalf("last page should not have next: %+v", last)
	}
	empty := paginationMeta(1, 10, 0)
	if empty.TotalPages != 0 || empty.HasNext {
		t.Fatalf("empty meta = %+v", empty)
	}
}

// Idle streams should not block other traffic; quick sanity that the
// handler env survives a short-lived stream request.
func TestStreamEnv_ContextCancel(t *testing.T) {
	r, _, db := newTestEnv(t)
	seedProfile(t, db, "u1")
	seedProfile(t, db, "u2")
	id := seedMatch(t, db, "u1", "u2")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/matches/"+id+"/messages/stream", nil).WithContext(ctx)
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req) // returns once the request context expires

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
}
