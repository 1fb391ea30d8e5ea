package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/footprint"
	"github.com/rshade/ecoquest/internal/greenops"
	"github.com/rshade/ecoquest/internal/insights"
	"github.com/rshade/ecoquest/internal/leaderboard"
	"github.com/rshade/ecoquest/internal/logging"
)

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: body: %w", errInvalidRequest, err)
	}
	return nil
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, "no route for "+r.URL.Path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateCategoryRequest is the body of POST /v1/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.svc.Categories(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"categories": cats})
	case http.MethodPost:
		var req CreateCategoryRequest
		if err := decodeBody(w, r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		c, err := s.svc.AddCategory(r.Context(), sessionFrom(r), req.Name)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, c)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// CalculateRequest is the body of POST /v1/calculate. Category may be given
// by name or by ID.
type CalculateRequest struct {
	Category     string         `json:"category"`
	CategoryID   int            `json:"category_id"`
	ActivityType string         `json:"activity_type"`
	Details      map[string]any `json:"details"`
}

// CalculateResponse is the result of POST /v1/calculate.
type CalculateResponse struct {
	Category    string                `json:"category"`
	CarbonKg    float64               `json:"carbon_kg"`
	Points      int                   `json:"points"`
	Details     footprint.Details     `json:"details"`
	Report      footprint.ParseReport `json:"report"`
	Equivalents *greenops.Summary     `json:"equivalents,omitempty"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req CalculateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	name := req.Category
	if req.CategoryID != 0 {
		cat, err := s.categoryByID(r, req.CategoryID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		name = cat.Name
	}

	result := footprint.Calculate(name, req.ActivityType, req.Details)
	resp := CalculateResponse{
		Category: result.Category.String(),
		CarbonKg: result.CarbonKg,
		Points:   result.Points,
		Details:  result.Details,
		Report:   result.Report,
	}
	if result.Category == footprint.CategoryCustom && strings.TrimSpace(name) != "" {
		resp.Category = strings.TrimSpace(name)
	}
	if eq, err := greenops.Equivalents(result.CarbonKg); err == nil && !eq.IsEmpty {
		resp.Equivalents = &eq
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) categoryByID(r *http.Request, id int) (activity.Category, error) {
	cats, err := s.svc.Categories(r.Context())
	if err != nil {
		return activity.Category{}, err
	}
	for _, c := range cats {
		if c.ID == id {
			return c, nil
		}
	}
	return activity.Category{}, fmt.Errorf("%w: id %d", activity.ErrUnknownCategory, id)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createActivity(w, r)
	case http.MethodGet:
		q := r.URL.Query()
		acts, err := s.svc.List(r.Context(), sessionFrom(r), q.Get("from"), q.Get("to"))
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if acts == nil {
			acts = []activity.Activity{}
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"activities": acts, "count": len(acts)})
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(r)
	start := time.Now()
	entry := logging.NewAuditEntry("activity add", logging.TraceIDFromContext(ctx)).WithUser(sess.UserID)

	var req activity.SubmitRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	entry.WithParameters(map[string]string{
		"category_id":   fmt.Sprint(req.CategoryID),
		"activity_type": req.ActivityType,
	})

	sub, err := s.svc.Submit(ctx, sess, req)
	if err != nil {
		s.audit.Log(ctx, *entry.WithError(err.Error()).WithDuration(start))
		s.writeServiceError(w, r, err)
		return
	}
	s.audit.Log(ctx, *entry.WithSuccess(sub.Activity.Points, sub.Activity.CarbonKg).WithDuration(start))
	writeJSON(w, r, http.StatusCreated, sub)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}

	ctx := r.Context()
	sess := sessionFrom(r)
	id := r.PathValue("id")
	start := time.Now()
	entry := logging.NewAuditEntry("activity delete", logging.TraceIDFromContext(ctx)).
		WithUser(sess.UserID).
		WithParameters(map[string]string{"id": id})

	a, err := s.svc.Delete(ctx, sess, id)
	if err != nil {
		s.audit.Log(ctx, *entry.WithError(err.Error()).WithDuration(start))
		s.writeServiceError(w, r, err)
		return
	}
	s.audit.Log(ctx, *entry.WithSuccess(-a.Points, -a.CarbonKg).WithDuration(start))
	writeJSON(w, r, http.StatusOK, map[string]any{"deleted": a})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	sortBy, err := leaderboard.ParseSortBy(r.URL.Query().Get("sort"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	board, err := s.svc.Leaderboard(r.Context(), sessionFrom(r), sortBy)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, board)
}

func (s *Server) handleGarden(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	g, err := s.svc.Garden(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, g)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	sum, err := s.svc.DailySummary(r.Context(), sessionFrom(r), r.URL.Query().Get("date"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	rng, err := insights.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		s.writeServiceError(w, r, fmt.Errorf("%w: %w", errInvalidRequest, err))
		return
	}
	report, err := s.svc.Insights(r.Context(), sessionFrom(r), rng)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	d, err := s.svc.Dashboard(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

// TargetRequest is the body of PUT /v1/settings/target.
type TargetRequest struct {
	DailyTargetKg float64 `json:"daily_target_kg"`
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, http.MethodPut)
		return
	}
	var req TargetRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.svc.SetDailyTarget(r.Context(), sessionFrom(r), req.DailyTargetKg); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, req)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	st, err := s.svc.AdminStats(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}
