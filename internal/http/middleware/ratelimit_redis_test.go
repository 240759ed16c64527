package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Integration tests: run only when REDIS_ADDR is set.
func redisFromEnv(t *testing.T) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	InitRedisRateLimiter(addr, pass, db)
}

func doGet(t *testing.T, client *http.Client, url string) int {
	t.Helper()
	res, err := client.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	return res.StatusCode
}

func TestWagerRateLimitPerWallet(t *testing.T) {
	redisFromEnv(t)

	const maxOps = 2
	window := 2 * time.Second

	// unique wallets per run so the fixed-window keys start fresh
	walletA := fmt.Sprintf("WalletRLA%d", time.Now().UnixNano())
	walletB := fmt.Sprintf("WalletRLB%d", time.Now().UnixNano())

	r := gin.New()
	r.GET("/balance", func(c *gin.Context) {
		c.Set("wallet", c.Query("w"))
		c.Next()
	}, WagerRateLimit(maxOps, window), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()
	client := &http.Client{}

	for i := 0; i < maxOps; i++ {
		if code := doGet(t, client, srv.URL+"/balance?w="+walletA); code != 200 {
			t.Fatalf("request %d: expected 200 got %d", i+1, code)
		}
	}
	if code := doGet(t, client, srv.URL+"/balance?w="+walletA); code != 429 {
		t.Fatalf("over-limit wallet: expected 429 got %d", code)
	}

	// лимит считается по кошельку, а не по IP
	if code := doGet(t, client, srv.URL+"/balance?w="+walletB); code != 200 {
		t.Fatalf("other wallet: expected 200 got %d", code)
	}
}

func TestWagerRateLimitRequiresWallet(t *testing.T) {
	redisFromEnv(t)

	r := gin.New()
	r.GET("/balance", WagerRateLimit(5, time.Second), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	if code := doGet(t, &http.Client{}, srv.URL+"/balance"); code != http.StatusUnauthorized {
		t.Fatalf("no wallet in context: expected 401 got %d", code)
	}
}

func TestRedisRateLimitBlocksOverLimit(t *testing.T) {
	redisFromEnv(t)

	const maxReq = 2
	window := 2 * time.Second

	r := gin.New()
	r.GET("/rooms", RedisRateLimit(maxReq, window), func(c *gin.Context) {
		c.JSON(200, gin.H{"rooms": []string{}})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()
	client := &http.Client{}

	for i := 0; i < maxReq; i++ {
		if code := doGet(t, client, srv.URL+"/rooms"); code != 200 {
			t.Fatalf("request %d: expected 200 got %d", i+1, code)
		}
	}
	if code := doGet(t, client, srv.URL+"/rooms"); code != 429 {
		t.Fatalf("expected 429 got %d", code)
	}
}
