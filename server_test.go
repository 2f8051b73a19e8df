package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Requests landing at the same instant must still count toward the window.
func TestRateLimitMiddleware(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	name, port := startRedisForLimiter(t)
	t.Cleanup(func() { _, _ = limiterDockerRun("rm", "-f", name) })

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("127.0.0.1:%s", port)})
	t.Cleanup(func() { _ = client.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(client, 3, time.Minute)
	r.GET("/ping", rl.RateLimitMiddleware, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.9:52000"
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 1; i <= 3; i++ {
		if code := send(); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("request 4: status = %d, want 429", code)
	}

	// Every hit in the window counts, so redis holds the true total.
	count, err := client.Get(context.Background(), "rate:10.0.0.9").Int64()
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if count != 4 {
		t.Fatalf("counter = %d, want 4", count)
	}
	ttl, err := client.TTL(context.Background(), "rate:10.0.0.9").Result()
	if err != nil {
		t.Fatalf("read ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl = %s, want within the window", ttl)
	}
}

func startRedisForLimiter(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("distribution-test-limiter-redis-%d", time.Now().UnixNano())
	out, err := limiterDockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	out, err = limiterDockerRun("port", name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v\n%s", err, out)
	}
	m := regexp.MustCompile(`:(\d+)`).FindStringSubmatch(out)
	if len(m) != 2 {
		t.Fatalf("unexpected docker port output: %q", out)
	}
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := limiterDockerRun("exec", name, "redis-cli", "ping"); err == nil {
			return name, m[1]
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func limiterDockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
