package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type contextKey string

const contextKeyToken contextKey = "accessToken"

const (
	headerRequestID = "X-Request-Id"
	maxRequestIDLen = 64
)

// middlewareAuth requires an Authorization header and stores the bearer token
// in the request context. The token is not validated: Dropbox does that.
func middlewareAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, r, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			respondWithError(w, r, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyToken, token)
		next(w, r.WithContext(ctx))
	}
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(contextKeyToken).(string)
	return token
}

// requestID tags the request logger and the response with a request id,
// reusing the caller's X-Request-Id when it is short printable ASCII.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)

		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("req_id", id)
		})
		next.ServeHTTP(w, r)
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// clientIP returns the host part of the connection's remote address. Proxy
// headers are honoured only when middleware.RealIP has rewritten RemoteAddr
// upstream of this call.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if parsed := net.ParseIP(host); parsed != nil {
		return parsed.String()
	}
	return host
}
