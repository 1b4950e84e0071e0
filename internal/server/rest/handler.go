package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/server/pagination"
	"github.com/dmitrijs2005/contactform/internal/server/services"
)

type credentialsRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type userRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
	Photo    string `json:"base64Photo"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewValidationError("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is empty")
		}
		return common.NewValidationError("invalid request body")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, common.NewValidationError("invalid id")
	}
	return id, nil
}

// named turns a bare not-found into "<what> not found".
func named(what string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%s %w", what, common.ErrorNotFound)
	}
	return err
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.auth.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeData(w, envelope{"user": res.User, "token": res.Token})
}

func (s *Server) checkLogin(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.CheckLogin(r.Context(), r.Header.Get(common.TokenHeaderName))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeData(w, envelope{"user": user})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), r.Header.Get(common.TokenHeaderName)); err != nil {
		s.fail(w, r, err)
		return
	}

	writeData(w, envelope{"message": "Logged out successfully"})
}

func (s *Server) countries(w http.ResponseWriter, r *http.Request) {
	writeData(w, envelope{"countries": services.Countries()})
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	var in services.SubmitInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	msg, err := s.messages.Submit(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	requestLogger(r, s.logger).Info(r.Context(), "message submitted", "id", msg.ID, "country", msg.Country)
	writeData(w, envelope{"message": msg})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeData(w, envelope{"messages": msgs})
}

func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	msg, err := s.messages.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, named("message", err))
		return
	}

	writeData(w, envelope{"message": msg})
}

func (s *Server) readMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	msg, err := s.messages.MarkRead(r.Context(), id)
	if err != nil {
		s.fail(w, r, named("message", err))
		return
	}

	writeData(w, envelope{"message": msg})
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.messages.Delete(r.Context(), id); err != nil {
		s.fail(w, r, named("message", err))
		return
	}

	if u := currentUser(r); u != nil {
		requestLogger(r, s.logger).Info(r.Context(), "message deleted", "id", id, "by", u.UserName)
	}
	writeData(w, envelope{"message": envelope{"id": id}})
}

func (s *Server) pageMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort, err := pagination.ParseSort(q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := pagination.ParseInt("page", q.Get("page"), pagination.DefaultPage, 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	perPage, err := pagination.ParseInt("perPage", q.Get("perPage"), pagination.DefaultPerPage, 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	msgs, err := s.messages.Page(r.Context(), sort, page, perPage)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeData(w, envelope{"messages": msgs})
}

func (s *Server) scrollMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort, err := pagination.ParseSort(q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	offset, err := pagination.ParseInt("lastMessageIndex", q.Get("lastMessageIndex"), 0, 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	perPage, err := pagination.ParseInt("perPage", q.Get("perPage"), pagination.DefaultPerPage, 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	msgs, err := s.messages.Scroll(r.Context(), sort, offset, perPage)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeData(w, envelope{"messages": msgs})
}

func (s *Server) addReader(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.users.AddReader(r.Context(), req.UserName, req.Password, req.Photo)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if u := currentUser(r); u != nil {
		requestLogger(r, s.logger).Info(r.Context(), "reader added", "id", user.ID, "by", u.UserName)
	}
	writeData(w, envelope{"user": user})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeData(w, envelope{"users": users})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, named("user", err))
		return
	}

	writeData(w, envelope{"user": user})
}

// updateUser accepts a username for compatibility with existing clients;
// it is not applied.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req userRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.users.Update(r.Context(), id, req.Password, req.Photo)
	if err != nil {
		s.fail(w, r, named("user", err))
		return
	}

	writeData(w, envelope{"user": user})
}
