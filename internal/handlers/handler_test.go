// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// the Valkey side runs against an in-process miniredis.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"menupress/internal/broadcast"
	"menupress/internal/cache"
	"menupress/internal/database"
	"menupress/internal/menustate"
	"menupress/internal/middleware"
	"menupress/internal/models"
	"menupress/internal/render"
	"menupress/internal/session"
	"menupress/internal/shortlink"
	"menupress/internal/store"
	menusync "menupress/internal/sync"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "menupress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "menupress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	Users       *store.UserStore
	Restaurants *store.RestaurantStore
	Links       *store.LinkStore
	Manager     *menustate.Manager
	Emitter     *menusync.Emitter
	MenuCache   *cache.MenuCache
	PageCache   *cache.PageCache
	Auth        *AuthHandler
	Admin       *AdminHandler
	Public      *PublicHandler
}

// newTestEnv creates a complete test environment with all handler
// dependencies wired the way main does it.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	restaurants := store.NewRestaurantStore(db)
	menus := store.NewMenuStore(db)
	options := store.NewOptionStore(db)
	links := store.NewLinkStore(db)
	userThemes := store.NewUserThemeStore(db)
	subscriptions := store.NewSubscriptionStore(db)
	syncLog := store.NewSyncLogStore(db)

	emitter := menusync.NewEmitter()
	persister := menustate.NewStorePersister(db)
	manager := menustate.NewManager(persister, emitter)

	menuCache := cache.NewMenuCache(manager, vk, time.Minute, menus.FullMenu)
	pageCache := cache.NewPageCache(vk, time.Minute)
	broadcaster := broadcast.New(vk)
	resolver := shortlink.NewResolver(links)

	auth := NewAuthHandler(users, sessions)
	admin := NewAdminHandler(AdminDeps{
		Restaurants:   restaurants,
		Subscriptions: subscriptions,
		UserThemes:    userThemes,
		Links:         links,
		Options:       options,
		SyncLog:       syncLog,
		Manager:       manager,
		Emitter:       emitter,
		MenuCache:     menuCache,
		PageCache:     pageCache,
		Broadcaster:   broadcaster,
		Resolver:      resolver,
		BaseURL:       "http://test.local",
	})
	public := NewPublicHandler(restaurants, links, menuCache, pageCache, render.New())

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    sessions,
		Users:       users,
		Restaurants: restaurants,
		Links:       links,
		Manager:     manager,
		Emitter:     emitter,
		MenuCache:   menuCache,
		PageCache:   pageCache,
		Auth:        auth,
		Admin:       admin,
		Public:      public,
	}
}

// testOwner creates an owner user and registers cleanup.
func testOwner(t *testing.T, env *testEnv, email string) *models.User {
	t.Helper()
	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	user, err := env.Users.Create(email, "password1234", "Test Owner", models.RoleOwner)
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE id = $1", user.ID) })
	return user
}

// giveSubscription inserts an active subscription for a user.
func giveSubscription(t *testing.T, env *testEnv, userID uuid.UUID) {
	t.Helper()
	_, err := env.DB.Exec(`
		INSERT INTO subscriptions (user_id, plan, status, current_period_end)
		VALUES ($1, 'premium', 'active', NOW() + INTERVAL '30 days')
	`, userID)
	if err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
}

// ownerSession builds session data for a logged-in, 2FA-complete owner.
func ownerSession(user *models.User) *session.Data {
	return &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   true,
	}
}

// jsonRequest builds a request with a JSON body, session data, and chi
// URL parameters given as alternating key/value pairs.
func jsonRequest(method, target string, body any, sess *session.Data, params ...string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")

	ctx := r.Context()
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return r.WithContext(ctx)
}

// decodeBody parses a JSON response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

// createTestRestaurant creates a restaurant through the handler and
// returns it. Cleanup cascades through the owner's deletion.
func createTestRestaurant(t *testing.T, env *testEnv, sess *session.Data, name string) *models.Restaurant {
	t.Helper()
	rec := httptest.NewRecorder()
	env.Admin.CreateRestaurant(rec, jsonRequest(http.MethodPost, "/api/admin/restaurants",
		map[string]string{"name": name}, sess))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create restaurant: got %d (%s)", rec.Code, rec.Body.String())
	}
	var restaurant models.Restaurant
	decodeBody(t, rec, &restaurant)
	return &restaurant
}

// uniqueEmail namespaces test accounts per test run.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@test.local", prefix, uuid.NewString()[:8])
}
