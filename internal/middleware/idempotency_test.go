package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const checkoutPath = "/v1/checkout"

func newIdempotentRouter(t *testing.T, status int) (*gin.Engine, *miniredis.Miniredis, *int32) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var calls int32
	router := gin.New()
	router.POST(checkoutPath, IdempotencyMiddleware(client), func(c *gin.Context) {
		n := atomic.AddInt32(&calls, 1)
		c.JSON(status, gin.H{"call": n})
	})
	return router, mr, &calls
}

func postWithKey(router http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, checkoutPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	router, mr, calls := newIdempotentRouter(t, http.StatusCreated)

	first := postWithKey(router, "key-1", `{"cart_total":1000}`)
	second := postWithKey(router, "key-1", `{"cart_total":1000}`)

	if *calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", *calls)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("expected replayed 201, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("expected replayed body %q, got %q", first.Body.String(), second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("expected Idempotent-Replayed header on the replay")
	}
	if mr.Exists("idempotency:" + checkoutPath + ":key-1:lock") {
		t.Error("expected the in-flight lock to be released")
	}
}

func TestIdempotency_DifferentBodyIsRejected(t *testing.T) {
	router, _, calls := newIdempotentRouter(t, http.StatusCreated)

	postWithKey(router, "key-1", `{"cart_total":1000}`)
	w := postWithKey(router, "key-1", `{"cart_total":2000}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if *calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", *calls)
	}
}

func TestIdempotency_InFlightKeyConflicts(t *testing.T) {
	router, mr, calls := newIdempotentRouter(t, http.StatusCreated)

	if err := mr.Set("idempotency:"+checkoutPath+":key-1:lock", "other"); err != nil {
		t.Fatalf("seed lock: %v", err)
	}

	w := postWithKey(router, "key-1", `{"cart_total":1000}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if *calls != 0 {
		t.Errorf("expected handler not to run, ran %d times", *calls)
	}
}

func TestIdempotency_ServerErrorsAreNotStored(t *testing.T) {
	router, _, calls := newIdempotentRouter(t, http.StatusInternalServerError)

	postWithKey(router, "key-1", `{"cart_total":1000}`)
	postWithKey(router, "key-1", `{"cart_total":1000}`)

	if *calls != 2 {
		t.Errorf("expected a retry after a 5xx to reach the handler, ran %d times", *calls)
	}
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	router, _, calls := newIdempotentRouter(t, http.StatusCreated)

	postWithKey(router, "", `{"cart_total":1000}`)
	postWithKey(router, "", `{"cart_total":1000}`)

	if *calls != 2 {
		t.Errorf("expected handler to run twice, ran %d times", *calls)
	}
}

func TestIdempotency_RedisDownPassesThrough(t *testing.T) {
	router, mr, calls := newIdempotentRouter(t, http.StatusCreated)
	mr.Close()

	w := postWithKey(router, "key-1", `{"cart_total":1000}`)
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201 with Redis unavailable, got %d", w.Code)
	}
	if *calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", *calls)
	}
}
