package rest

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/logging"
	"github.com/dmitrijs2005/contactform/internal/server/models"
)

type ctxKeyLog struct{}
type ctxKeyUser struct{}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

func (r *responseRecorder) Unwrap() http.ResponseWriter { return r.w }

// Hijack hands the connection over to the WebSocket upgrader.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.w.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		log := s.logger.With(
			"http.req.path", r.URL.Path,
			"http.req.method", r.Method,
			"http.req.id", requestID,
		)

		start := time.Now()
		rr := &responseRecorder{w: w}
		log.Debug(r.Context(), "request started")
		defer func() {
			log.Info(r.Context(), "request complete",
				"http.resp.took_ms", time.Since(start).Milliseconds(),
				"http.resp.status", rr.status,
				"http.resp.bytes", rr.b,
			)
		}()

		ctx := context.WithValue(r.Context(), ctxKeyLog{}, log)
		next.ServeHTTP(rr, r.WithContext(ctx))
	})
}

func requestLogger(r *http.Request, fallback logging.Logger) logging.Logger {
	if l, ok := r.Context().Value(ctxKeyLog{}).(logging.Logger); ok {
		return l
	}
	return fallback
}

// cors allows any origin; preflight requests are answered here.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+common.TokenHeaderName)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireRoles runs the auth gate before h. The resolved user is stored in
// the request context.
func (s *Server) requireRoles(h http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Authorize(r.Context(), r.Header.Get(common.TokenHeaderName), roles...)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser{}, user)
		h(w, r.WithContext(ctx))
	}
}

// currentUser returns the user resolved by requireRoles, if any.
func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(ctxKeyUser{}).(*models.User)
	return u
}
