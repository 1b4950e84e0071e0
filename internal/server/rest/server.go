// Package rest exposes the contact-form API over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/contactform/internal/logging"
	"github.com/dmitrijs2005/contactform/internal/server/models"
	"github.com/dmitrijs2005/contactform/internal/server/pagination"
	"github.com/dmitrijs2005/contactform/internal/server/services"
)

// AuthService is the authentication gate the API relies on.
type AuthService interface {
	Authorize(ctx context.Context, token string, roles ...models.Role) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
	CheckLogin(ctx context.Context, token string) (*models.User, error)
}

type UserService interface {
	AddReader(ctx context.Context, userName, password, photo string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, password, photo string) (*models.User, error)
}

type MessageService interface {
	Submit(ctx context.Context, in services.SubmitInput) (*models.Message, error)
	List(ctx context.Context) ([]*models.Message, error)
	Get(ctx context.Context, id int64) (*models.Message, error)
	MarkRead(ctx context.Context, id int64) (*models.Message, error)
	Delete(ctx context.Context, id int64) error
	Page(ctx context.Context, sort pagination.Sort, page, perPage int) ([]*models.Message, error)
	Scroll(ctx context.Context, sort pagination.Sort, offset, limit int) ([]*models.Message, error)
}

// Options tunes request handling.
type Options struct {
	Address         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

type Server struct {
	opts     Options
	auth     AuthService
	users    UserService
	messages MessageService
	live     http.Handler
	logger   logging.Logger
}

// NewServer wires the API. live serves the WebSocket endpoint.
func NewServer(opts Options, l logging.Logger, a AuthService, u UserService, m MessageService, live http.Handler) *Server {
	return &Server{
		opts:     opts,
		auth:     a,
		users:    u,
		messages: m,
		live:     live,
		logger:   l.With("module", "http_server"),
	}
}

// Handler returns the routed API with its middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	if s.live != nil {
		r.Handle("/ws", s.live).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(timeout(s.opts.RequestTimeout), limitBody(s.opts.MaxBodyBytes))

	staff := []models.Role{models.RoleAdmin, models.RoleReader}
	admin := []models.Role{models.RoleAdmin}

	api.HandleFunc("/user/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/user/check-login", s.checkLogin).Methods(http.MethodPost)
	api.HandleFunc("/user/logout", s.logout).Methods(http.MethodPost)
	api.HandleFunc("/user/add-reader", s.requireRoles(s.addReader, admin...)).Methods(http.MethodPost)
	api.HandleFunc("/users", s.requireRoles(s.listUsers, admin...)).Methods(http.MethodGet)
	api.HandleFunc("/user/{id}", s.requireRoles(s.getUser, admin...)).Methods(http.MethodGet)
	api.HandleFunc("/user/update/{id}", s.requireRoles(s.updateUser, admin...)).Methods(http.MethodPost)

	api.HandleFunc("/message/add", s.addMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages", s.requireRoles(s.listMessages, staff...)).Methods(http.MethodGet)
	api.HandleFunc("/message/{id}", s.requireRoles(s.getMessage, staff...)).Methods(http.MethodGet)
	api.HandleFunc("/message/read/{id}", s.requireRoles(s.readMessage, staff...)).Methods(http.MethodPost)
	api.HandleFunc("/message/delete/{id}", s.requireRoles(s.deleteMessage, admin...)).Methods(http.MethodPost)
	api.HandleFunc("/messages-with-pagination", s.requireRoles(s.pageMessages, staff...)).Methods(http.MethodGet)
	api.HandleFunc("/messages-with-pagination-scroll", s.scrollMessages).Methods(http.MethodGet)

	api.HandleFunc("/countries", s.countries).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return s.logRequests(cors(r))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
