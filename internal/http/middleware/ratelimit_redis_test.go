package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// fakeAuth stamps the context the way the JWT middleware does, so the
// limiter sees an authenticated user.
func fakeAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func doRequests(t *testing.T, srv *httptest.Server, path string, n int) []int {
	t.Helper()
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		res, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		codes = append(codes, res.StatusCode)
	}
	return codes
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			db = n
		}
	}

	InitRedisRateLimiter(addr, pass, db)
	if redisClient == nil {
		t.Skip("redis unreachable; skipping integration test")
	}

	// small window for test
	w := 2 * time.Second
	max := 2

	r := gin.New()
	r.GET("/chat", RedisRateLimit(max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	codes := doRequests(t, srv, "/chat", max)
	for _, code := range codes {
		if code != 200 {
			t.Fatalf("expected 200 got %d", code)
		}
	}

	// next request should be blocked
	codes = doRequests(t, srv, "/chat", 1)
	if codes[0] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", codes[0])
	}
}

// Two authenticated users behind the same IP get separate windows.
func TestRedisRateLimitKeysOnUser(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), 0)
	if redisClient == nil {
		t.Skip("redis unreachable; skipping integration test")
	}

	w := 2 * time.Second
	max := 2

	r := gin.New()
	limited := RedisRateLimit(max, w)
	r.GET("/as/alice", fakeAuth(900001), limited, func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/as/bob", fakeAuth(900002), limited, func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	srv := httptest.NewServer(r)
	defer srv.Close()

	// alice burns her whole window
	codes := doRequests(t, srv, "/as/alice", max+1)
	if codes[max] != http.StatusTooManyRequests {
		t.Fatalf("alice: expected 429 got %d", codes[max])
	}

	// bob shares alice's IP but not her window
	codes = doRequests(t, srv, "/as/bob", 1)
	if codes[0] != 200 {
		t.Fatalf("bob: expected 200 got %d", codes[0])
	}
}

func TestSimpleRateLimitKeysOnUser(t *testing.T) {
	r := gin.New()
	limited := SimpleRateLimit(2, time.Minute)
	r.GET("/as/alice", fakeAuth(910001), limited, func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/as/bob", fakeAuth(910002), limited, func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	srv := httptest.NewServer(r)
	defer srv.Close()

	codes := doRequests(t, srv, "/as/alice", 3)
	if codes[0] != 200 || codes[1] != 200 {
		t.Fatalf("alice within window: got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("alice over window: expected 429 got %d", codes[2])
	}

	codes = doRequests(t, srv, "/as/bob", 1)
	if codes[0] != 200 {
		t.Fatalf("bob: expected 200 got %d", codes[0])
	}
}
