package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		token  string
		cookie *http.Cookie
		want   int
	}{
		{name: "disabled", token: "", want: http.StatusNoContent},
		{name: "missing cookie", token: "s3cret", want: http.StatusUnauthorized},
		{name: "wrong cookie", token: "s3cret", cookie: &http.Cookie{Name: SessionCookie, Value: "nope"}, want: http.StatusUnauthorized},
		{name: "valid cookie", token: "s3cret", cookie: &http.Cookie{Name: SessionCookie, Value: "s3cret"}, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			SessionMiddleware(tt.token)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}
