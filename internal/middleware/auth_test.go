package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"member-portal/internal/auth/authz"
	"member-portal/internal/session"
	"member-portal/internal/users"
)

type fixture struct {
	router   *gin.Engine
	sessions *session.Manager
	store    *users.MemStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	store := users.NewMemStore()
	sessions := session.NewManager(session.NewRedisStore(rdb), time.Hour, session.DefaultCookieOptions(true))
	mw := NewAuthMiddleware(sessions, authz.NewGate(store))

	router := gin.New()
	router.Use(Gin(mw.LoadSession))
	router.GET("/members", Gin(mw.RequireAuth), func(c *gin.Context) {
		c.String(http.StatusOK, SessionFromContext(c.Request.Context()).UserName)
	})
	router.GET("/admin", Gin(mw.RequireAdmin), func(c *gin.Context) {
		admin, _ := AdminFromContext(c.Request.Context())
		c.String(http.StatusOK, admin.Email)
	})

	return &fixture{router: router, sessions: sessions, store: store}
}

func (f *fixture) login(t *testing.T, name, email string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := f.sessions.Issue(context.Background(), rec, session.Anonymous(), name, email); err != nil {
		t.Fatalf("issue: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func (f *fixture) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/members", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireAuthAllowsSession(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t, "alice", "a@x.com")

	rec := f.get("/members", cookie)
	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.store.Insert(ctx, users.User{Name: "root", Email: "root@x.com", Role: users.RoleAdmin})
	_, _ = f.store.Insert(ctx, users.User{Name: "alice", Email: "a@x.com"})

	if rec := f.get("/admin", nil); rec.Code != http.StatusFound {
		t.Fatalf("anonymous: got %d", rec.Code)
	}
	if rec := f.get("/admin", f.login(t, "alice", "a@x.com")); rec.Code != http.StatusForbidden {
		t.Fatalf("user: got %d", rec.Code)
	}

	rootCookie := f.login(t, "root", "root@x.com")
	if rec := f.get("/admin", rootCookie); rec.Code != http.StatusOK || rec.Body.String() != "root@x.com" {
		t.Fatalf("admin: got %d %q", rec.Code, rec.Body.String())
	}

	_ = f.store.UpdateRole(ctx, "root@x.com", users.RoleUser)
	if rec := f.get("/admin", rootCookie); rec.Code != http.StatusForbidden {
		t.Fatalf("demoted admin with old cookie: got %d", rec.Code)
	}
}
