package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/templui/campus-collector/internal/ctxkeys"
	"github.com/templui/campus-collector/internal/model"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute, nil)(okHandler)

	for i, expected := range []int{200, 200, 429} {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze-photo", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != expected {
			t.Errorf("%d expect %d, got %d", i, expected, rec.Code)
		}
	}

	// Another client is counted separately.
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-photo", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expect other client allowed, got %d", rec.Code)
	}
}

func TestRateLimitResponse(t *testing.T) {
	handler := RateLimit(1, time.Minute, nil)(okHandler)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req = req.WithContext(ctxkeys.WithLanguage(req.Context(), model.LanguageEnglish))
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}
	send()
	rec := send()

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expect 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("expect Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}
	var body map[string]string
	err := json.NewDecoder(rec.Body).Decode(&body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(body["error"], "Too many requests") {
		t.Errorf("unexpected error message %q", body["error"])
	}
}

func TestRateLimitIgnoresSpoofedForwarding(t *testing.T) {
	handler := RateLimit(1, time.Minute, nil)(okHandler)

	for i, forwarded := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze-photo", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler(rec, req)

		expected := http.StatusTooManyRequests
		if i == 0 {
			expected = http.StatusOK
		}
		if rec.Code != expected {
			t.Errorf("%d expect %d, got %d", i, expected, rec.Code)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "::1"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		expected   string
	}{
		{"untrusted peer ignores headers", "198.51.100.9", "198.51.100.8", "203.0.113.7:80", "203.0.113.7"},
		{"trusted peer uses forwarded client", "203.0.113.7, 10.0.0.2", "", "10.0.0.1:80", "203.0.113.7"},
		{"spoofed left-most hop is skipped", "1.2.3.4, 203.0.113.7", "", "10.0.0.1:80", "203.0.113.7"},
		{"trusted peer falls back to real ip", "", " 198.51.100.2 ", "10.0.0.1:80", "198.51.100.2"},
		{"all hops trusted", "10.0.0.3", "", "10.0.0.1:80", "10.0.0.1"},
		{"ipv6 trusted peer", "203.0.113.5", "", "[::1]:8080", "203.0.113.5"},
		{"ipv6 untrusted peer", "", "", "[2001:db8::1]:8080", "2001:db8::1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = test.remoteAddr
			if test.xff != "" {
				req.Header.Set("X-Forwarded-For", test.xff)
			}
			if test.realIP != "" {
				req.Header.Set("X-Real-IP", test.realIP)
			}
			got := getClientIP(req, trusted)
			if got != test.expected {
				t.Errorf("expect %q, got %q", test.expected, got)
			}
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"127.0.0.1", "172.16.5.4/12"})
	if err != nil {
		t.Fatal(err)
	}
	if len(prefixes) != 2 || prefixes[0].String() != "127.0.0.1/32" || prefixes[1].String() != "172.16.0.0/12" {
		t.Errorf("unexpected prefixes %v", prefixes)
	}

	for _, bad := range []string{"proxy.local", "10.0.0.0/99"} {
		if _, err := ParseTrustedProxies([]string{bad}); err == nil {
			t.Errorf("%s expect error", bad)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	expected := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range expected {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s expect %q, got %q", header, value, got)
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 36 || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("expect generated uuid echoed, got %q / %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "upstream-id" {
		t.Errorf("expect incoming id reused, got %q", seen)
	}
}

func TestWithLanguage(t *testing.T) {
	tests := []struct {
		url            string
		acceptLanguage string
		expected       model.Language
	}{
		{"/", "", model.LanguageChinese},
		{"/", "en-US,en;q=0.9", model.LanguageEnglish},
		{"/?lang=zh", "en-US", model.LanguageChinese},
		{"/?lang=en", "", model.LanguageEnglish},
		{"/?lang=de", "", model.LanguageChinese},
	}

	for i, test := range tests {
		var got model.Language
		handler := WithLanguage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = ctxkeys.Language(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, test.url, nil)
		if test.acceptLanguage != "" {
			req.Header.Set("Accept-Language", test.acceptLanguage)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != test.expected {
			t.Errorf("%d expect %s, got %s", i, test.expected, got)
		}
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(okHandler), mark("first"), mark("second"), mark("third"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second,third" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestRequestLoggingCapturesStatus(t *testing.T) {
	handler := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/upload", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("expect first status kept, got %d", rec.Code)
	}
}
