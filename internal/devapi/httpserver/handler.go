package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/services"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", services.ErrValidation, err)
	}
	return nil
}

func (s *HTTPServer) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

type profileRequest struct {
	FullName      string `json:"fullName"`
	BusinessEmail string `json:"businessEmail"`
	ProfileType   string `json:"profileType"`
	Company       string `json:"company"`
	Country       string `json:"country"`
	FirmType      string `json:"firmType"`
	MarketRegion  string `json:"marketRegion"`
}

func (p profileRequest) profile() services.Profile {
	return services.Profile{
		FullName:     p.FullName,
		Email:        p.BusinessEmail,
		ProfileType:  p.ProfileType,
		Company:      p.Company,
		Country:      p.Country,
		FirmType:     p.FirmType,
		MarketRegion: p.MarketRegion,
	}
}

type signupRequest struct {
	profileRequest
	Password string `json:"password"`
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	token, err := s.users.Signup(r.Context(), req.profile(), req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (s *HTTPServer) verify(w http.ResponseWriter, r *http.Request) {
	if _, err := s.users.Get(r.Context(), userIDFrom(r.Context())); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

type profileResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Country      string `json:"country"`
	MarketRegion string `json:"market_region"`
	Company      string `json:"company"`
	FirmType     string `json:"firm_type"`
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		ID:           u.ID,
		Name:         u.FullName,
		Email:        u.Email,
		Role:         u.ProfileType,
		Country:      u.Country,
		MarketRegion: u.MarketRegion,
		Company:      u.Company,
		FirmType:     u.FirmType,
	})
}

func (s *HTTPServer) update(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.users.UpdateProfile(r.Context(), userIDFrom(r.Context()), req.profile()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *HTTPServer) strategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"strategies": s.analytics.Strategies()})
}

func (s *HTTPServer) strategy(w http.ResponseWriter, r *http.Request) {
	doc, err := s.analytics.Strategy(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// monthlyStats reads sort and filter as JSON objects and limit/offset as
// integers, all optional.
func (s *HTTPServer) monthlyStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query services.MonthlyStatsQuery

	if err := jsonParam(q.Get("sort"), &query.Sort); err != nil {
		s.fail(w, r, fmt.Errorf("sort: %w", err))
		return
	}
	if err := jsonParam(q.Get("filter"), &query.Filter); err != nil {
		s.fail(w, r, fmt.Errorf("filter: %w", err))
		return
	}

	var err error
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		s.fail(w, r, fmt.Errorf("limit: %w", err))
		return
	}
	if query.Offset, err = intParam(q.Get("offset")); err != nil {
		s.fail(w, r, fmt.Errorf("offset: %w", err))
		return
	}

	rows, err := s.analytics.MonthlyStats(query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func jsonParam(raw string, v any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	return nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	return n, nil
}
