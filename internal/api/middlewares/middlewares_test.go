package middlewares_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mw "github.com/5w1tchy/book-catalog/internal/api/middlewares"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestApplyMiddleware_Order(t *testing.T) {
	var order []string
	tag := func(name string) mw.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := mw.ApplyMiddleware(okHandler, tag("a"), tag("b"), tag("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "a,b,c" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestRecovery(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	mw.RequestID(mw.Recovery(panicHandler)).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "test panic") {
		t.Errorf("panic value leaked: %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestRecoveryDoesNotInterceptNormalRequests(t *testing.T) {
	normal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("success"))
	})

	rec := httptest.NewRecorder()
	mw.Recovery(normal).ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "success" {
		t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequestID_GeneratesID(t *testing.T) {
	var seen string
	h := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = mw.GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

	if seen == "" {
		t.Fatal("Expected request ID in context")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("response header %q != context %q", rec.Header().Get("X-Request-ID"), seen)
	}
}

func TestRequestID_UsesProvidedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "custom-request-id")
	rec := httptest.NewRecorder()

	mw.RequestID(okHandler).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "custom-request-id" {
		t.Errorf("Expected custom-request-id, got %s", got)
	}
}

func TestRequestID_RejectsInvalidID(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "invalid@#$%id")
	rec := httptest.NewRecorder()

	mw.RequestID(okHandler).ServeHTTP(rec, req)

	rid := rec.Header().Get("X-Request-ID")
	if rid == "invalid@#$%id" || rid == "" {
		t.Errorf("Should have replaced invalid request ID, got %q", rid)
	}
}

func TestResponseTime(t *testing.T) {
	for name, h := range map[string]http.HandlerFunc{
		"WriteHeader": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Millisecond)
			w.WriteHeader(http.StatusNoContent)
		},
		"Write": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("test response"))
		},
		"Nothing": func(w http.ResponseWriter, r *http.Request) {},
	} {
		rec := httptest.NewRecorder()
		mw.ResponseTime(h).ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))
		if rec.Header().Get("X-Response-Time") == "" {
			t.Errorf("%s: Expected X-Response-Time header", name)
		}
	}
}

func TestBodySizeLimit(t *testing.T) {
	reader := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.BodySizeLimit(64)(reader)

	cases := []struct {
		method string
		size   int
		want   int
	}{
		{"POST", 10, http.StatusOK},
		{"POST", 65, http.StatusRequestEntityTooLarge},
		{"PUT", 1024, http.StatusRequestEntityTooLarge},
		{"GET", 1024, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/test", bytes.NewReader(bytes.Repeat([]byte("a"), tc.size)))
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s %d bytes: want %d, got %d", tc.method, tc.size, tc.want, rec.Code)
		}
	}
}

func TestBodySizeLimit_UnknownLengthStillCapped(t *testing.T) {
	reader := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/test", io.NopCloser(strings.NewReader(strings.Repeat("x", 100))))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	mw.BodySizeLimit(64)(reader).ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("want 413, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	mw.SecurityHeaders(false)(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
		"Cache-Control":          "no-store",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("Header %s: expected %q, got %q", header, want, got)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}
	if rec.Header().Get("Cross-Origin-Opener-Policy") != "" {
		t.Error("COOP is only set in strict mode")
	}
}

func TestSecurityHeaders_HSTSOverTLS(t *testing.T) {
	// httptest populates req.TLS for https targets
	req := httptest.NewRequest("GET", "https://example.com/test", nil)
	rec := httptest.NewRecorder()
	mw.SecurityHeaders(true)(okHandler).ServeHTTP(rec, req)

	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("Expected HSTS over TLS")
	}
	if rec.Header().Get("Cross-Origin-Opener-Policy") != "same-origin" {
		t.Error("Expected COOP in strict mode")
	}
}

func TestCompression(t *testing.T) {
	h := mw.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"books":[]}`))
	}))

	req := httptest.NewRequest("GET", "/books", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatal("Expected gzip encoding")
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"books":[]}` {
		t.Errorf("unexpected body %q", body)
	}

	plain := httptest.NewRecorder()
	h.ServeHTTP(plain, httptest.NewRequest("GET", "/books", nil))
	if plain.Header().Get("Content-Encoding") != "" || plain.Body.String() != `{"books":[]}` {
		t.Error("Expected identity response without Accept-Encoding")
	}
}

func TestCompression_PanicStillReturns500(t *testing.T) {
	h := mw.ApplyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), mw.Recovery, mw.Compression)

	req := httptest.NewRequest("GET", "/books", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if enc := rec.Header().Get("Content-Encoding"); enc != "" {
		t.Errorf("Expected identity encoding, got %q", enc)
	}
	var p struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil || p.Status != http.StatusInternalServerError {
		t.Errorf("Expected problem JSON body, got %q (%v)", rec.Body.String(), err)
	}
}

func TestCompression_NoContentNotEncoded(t *testing.T) {
	h := mw.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("DELETE", "/book/1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || rec.Header().Get("Content-Encoding") != "" || rec.Body.Len() != 0 {
		t.Errorf("unexpected response %d enc=%q body=%q", rec.Code, rec.Header().Get("Content-Encoding"), rec.Body.String())
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	h := mw.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("made"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/book", nil))

	if rec.Code != http.StatusCreated || rec.Body.String() != "made" {
		t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
