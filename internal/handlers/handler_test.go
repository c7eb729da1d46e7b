// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Integration tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"marianconnect/internal/cache"
	"marianconnect/internal/database"
	"marianconnect/internal/middleware"
	"marianconnect/internal/render"
	"marianconnect/internal/session"
	"marianconnect/internal/storage"
	"marianconnect/internal/store"
	"marianconnect/internal/upload"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL, runs migrations and
// seeds the default admin.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "marianconnect")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "marianconnect")
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
	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})
	return client
}

// testRenderer builds a renderer over a throwaway local upload root.
func testRenderer(t *testing.T) (*render.Renderer, *storage.Local) {
	t.Helper()
	backend, err := storage.NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}
	renderer, err := render.New(backend, "MarianConnect")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return renderer, backend
}

// offlinePublic returns a Public handler whose stores have no database.
// Only code paths that never reach the database may be exercised with it.
func offlinePublic(t *testing.T) *Public {
	t.Helper()
	renderer, _ := testRenderer(t)
	return NewPublic(renderer, store.New(nil))
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Backend   *storage.Local
	Stores    *store.Stores
	Sessions  *session.Store
	PageCache *cache.PageCache
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)
	renderer, backend := testRenderer(t)

	stores := store.New(db)
	sessions := session.NewStore(vk, false)
	pageCache := cache.NewPageCache(vk, time.Minute)
	ingester := upload.NewIngester(stores.Gallery, backend, t.TempDir())

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Backend:   backend,
		Stores:    stores,
		Sessions:  sessions,
		PageCache: pageCache,
		Admin:     NewAdmin(renderer, stores, ingester, pageCache),
		Auth:      NewAuth(renderer, sessions, stores.Users, "MarianConnect"),
		Public:    NewPublic(renderer, stores),
	}
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        "admin",
		TwoFADone:   twoFADone,
	}
}

// withSession attaches a signed-in admin to the request.
func withSession(t *testing.T, env *testEnv, r *http.Request) *http.Request {
	t.Helper()
	sess := testSession(testAuthorID(t, env.DB), "admin@marianconnect.local", true)
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testAuthorID returns a valid user ID for content creation.
func testAuthorID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("no users in database: %v", err)
	}
	return id
}

// cleanBySlug removes test rows from table by slug.
func cleanBySlug(t *testing.T, db *sql.DB, table string, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM "+table+" WHERE slug = $1", s)
	}
}
