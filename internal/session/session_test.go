package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testStore returns a Store on Valkey DB 15. Skips the test if Valkey is
// unavailable.
func testStore(t *testing.T, secure bool) *Store {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	t.Cleanup(func() {
		if keys, _ := client.Keys(ctx, keyPrefix+"*").Result(); len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return NewStore(client, secure)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// sessionCookie extracts the session cookie from a recorded response.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	data := &Data{UserID: uuid.New(), Email: "life@session.local", DisplayName: "Life", Role: "admin"}
	w := httptest.NewRecorder()
	if _, err := store.Create(ctx, w, data); err != nil {
		t.Fatalf("Create: %v", err)
	}
	c := sessionCookie(t, w)
	if !c.HttpOnly || c.Secure {
		t.Errorf("cookie flags HttpOnly=%v Secure=%v, want true/false", c.HttpOnly, c.Secure)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)

	got, err := store.Get(ctx, req)
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.UserID != data.UserID || got.TwoFADone {
		t.Errorf("Get = %+v", got)
	}

	data.TwoFADone = true
	if err := store.Update(ctx, req, data); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := store.Get(ctx, req); got == nil || !got.TwoFADone {
		t.Errorf("TwoFADone not persisted: %+v", got)
	}

	w2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, w2, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if c := sessionCookie(t, w2); c.MaxAge != -1 {
		t.Errorf("destroyed cookie MaxAge = %d, want -1", c.MaxAge)
	}
	if got, _ := store.Get(ctx, req); got != nil {
		t.Error("session still readable after Destroy")
	}
}

func TestSessionWithoutCookie(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if got, err := store.Get(ctx, req); got != nil || err != nil {
		t.Errorf("Get = %v, %v; want nil, nil", got, err)
	}
	if err := store.Update(ctx, req, &Data{}); !errors.Is(err, ErrNoSession) {
		t.Errorf("Update = %v, want ErrNoSession", err)
	}
	if err := store.Destroy(ctx, httptest.NewRecorder(), req); err != nil {
		t.Errorf("Destroy = %v", err)
	}

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "expired"})
	if got, err := store.Get(ctx, req); got != nil || err != nil {
		t.Errorf("Get(expired) = %v, %v; want nil, nil", got, err)
	}
}

func TestSessionSecureCookie(t *testing.T) {
	store := testStore(t, true)
	w := httptest.NewRecorder()
	store.Create(context.Background(), w, &Data{UserID: uuid.New(), Email: "secure@session.local"})
	if !sessionCookie(t, w).Secure {
		t.Error("expected Secure cookie")
	}
}
