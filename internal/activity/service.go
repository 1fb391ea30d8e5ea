package activity

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/ecoquest/internal/footprint"
	"github.com/rshade/ecoquest/internal/garden"
	"github.com/rshade/ecoquest/internal/insights"
	"github.com/rshade/ecoquest/internal/leaderboard"
	"github.com/rshade/ecoquest/internal/logging"
)

// DefaultRecentLimit is how many activities the dashboard shows.
const DefaultRecentLimit = 5

// Service runs the activity workflows against a Store.
type Service struct {
	store         Store
	now           func() time.Time
	defaultTarget float64
	recentLimit   int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now. Dates are taken in UTC.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaultTarget sets the daily target given to new users.
func WithDefaultTarget(kg float64) Option {
	return func(s *Service) {
		if kg > 0 {
			s.defaultTarget = kg
		}
	}
}

// WithRecentLimit sets how many recent activities the dashboard returns.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// NewService returns a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:         store,
		now:           time.Now,
		defaultTarget: insights.DefaultTargetKg,
		recentLimit:   DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current UTC calendar date.
func (s *Service) Today() string {
	return s.now().UTC().Format(DateLayout)
}

// SubmitRequest is the input to Submit.
type SubmitRequest struct {
	CategoryID   int            `json:"category_id"`
	ActivityType string         `json:"activity_type"`
	Date         string         `json:"date,omitempty"`
	Details      map[string]any `json:"details"`
}

// Submission is the result of Submit.
type Submission struct {
	Activity Activity              `json:"activity"`
	Report   footprint.ParseReport `json:"report"`
}

// Submit validates req, computes its footprint and points, stores it and
// updates the caller's totals. An empty date means today.
func (s *Service) Submit(ctx context.Context, sess Session, req SubmitRequest) (Submission, error) {
	log := logging.FromContext(ctx)

	if err := sess.Validate(); err != nil {
		return Submission{}, err
	}
	activityType := strings.TrimSpace(req.ActivityType)
	if activityType == "" {
		return Submission{}, ErrEmptyActivityType
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return Submission{}, err
	}

	cat, err := s.store.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return Submission{}, err
	}
	if _, err = s.ensureUser(ctx, sess); err != nil {
		return Submission{}, err
	}

	result := footprint.Calculate(cat.Name, activityType, req.Details)
	if math.IsNaN(result.CarbonKg) || math.IsInf(result.CarbonKg, 0) {
		return Submission{}, fmt.Errorf("%w: %v kg", ErrInvalidFootprint, result.CarbonKg)
	}
	details := req.Details
	if details == nil {
		details = map[string]any{}
	}

	a := Activity{
		ID:           ulid.Make().String(),
		UserID:       sess.UserID,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		ActivityType: activityType,
		Date:         date,
		CarbonKg:     result.CarbonKg,
		Points:       result.Points,
		Details:      details,
		CreatedAt:    s.now().UTC(),
	}
	if err = s.store.InsertActivity(ctx, a); err != nil {
		return Submission{}, fmt.Errorf("storing activity: %w", err)
	}

	ev := log.Info().Ctx(ctx).
		Str("operation", "submit").
		Str("user_id", sess.UserID).
		Str("activity_id", a.ID).
		Str("category", cat.Name).
		Float64("carbon_kg", a.CarbonKg).
		Int("points", a.Points)
	if !result.Report.Clean() {
		ev = ev.Strs("defaulted", result.Report.Defaulted).
			Strs("unknown", result.Report.Unknown).
			Strs("clamped", result.Report.Clamped)
	}
	ev.Msg("activity submitted")

	return Submission{Activity: a, Report: result.Report}, nil
}

func (s *Service) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.Today(), nil
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, date)
	}
	return t.Format(DateLayout), nil
}

func (s *Service) ensureUser(ctx context.Context, sess Session) (User, error) {
	u, err := s.store.EnsureUser(ctx, User{
		ID:            sess.UserID,
		Email:         sess.Email,
		Username:      sess.Username,
		DailyTargetKg: s.defaultTarget,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return User{}, fmt.Errorf("ensuring user: %w", err)
	}
	return u, nil
}

// Categories lists the known categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

// AddCategory creates a custom category. Only admins may do so.
func (s *Service) AddCategory(ctx context.Context, sess Session, name string) (Category, error) {
	if err := sess.Validate(); err != nil {
		return Category{}, err
	}
	if !sess.IsAdmin {
		return Category{}, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: empty name", ErrUnknownCategory)
	}
	return s.store.CreateCategory(ctx, name)
}

// List returns the caller's activities dated within [from, to], newest first.
func (s *Service) List(ctx context.Context, sess Session, from, to string) ([]Activity, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return nil, fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, d)
		}
	}
	return s.store.ListActivities(ctx, sess.UserID, from, to)
}

// Delete removes one of the caller's activities and reverses its totals.
func (s *Service) Delete(ctx context.Context, sess Session, id string) (Activity, error) {
	if err := sess.Validate(); err != nil {
		return Activity{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Activity{}, ErrActivityNotFound
	}

	a, err := s.store.DeleteActivity(ctx, sess.UserID, id)
	if err != nil {
		return Activity{}, err
	}
	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("operation", "delete").
		Str("user_id", sess.UserID).
		Str("activity_id", id).
		Msg("activity deleted")
	return a, nil
}

// Profile returns the caller's user record, creating it on first use.
func (s *Service) Profile(ctx context.Context, sess Session) (User, error) {
	if err := sess.Validate(); err != nil {
		return User{}, err
	}
	return s.ensureUser(ctx, sess)
}

// Leaderboard ranks every user and reports the caller's position.
func (s *Service) Leaderboard(ctx context.Context, sess Session, sortBy leaderboard.SortBy) (leaderboard.Board, error) {
	if err := sess.Validate(); err != nil {
		return leaderboard.Board{}, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return leaderboard.Board{}, err
	}

	entries := make([]leaderboard.Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, leaderboard.Entry{
			UserID:        u.ID,
			Username:      u.Username,
			TotalPoints:   u.TotalPoints,
			TotalCarbonKg: u.TotalCarbonKg,
		})
	}
	return leaderboard.Build(entries, sortBy, sess.UserID), nil
}

// Garden returns the caller's plant growth.
func (s *Service) Garden(ctx context.Context, sess Session) (garden.Growth, error) {
	u, err := s.Profile(ctx, sess)
	if err != nil {
		return garden.Growth{}, err
	}
	return garden.Grow(u.TotalPoints), nil
}

// DailySummary reports the caller's footprint on date against their target.
// An empty date means today.
func (s *Service) DailySummary(ctx context.Context, sess Session, date string) (insights.DailySummary, error) {
	u, err := s.Profile(ctx, sess)
	if err != nil {
		return insights.DailySummary{}, err
	}
	day, err := s.resolveDate(date)
	if err != nil {
		return insights.DailySummary{}, err
	}

	acts, err := s.store.ListActivities(ctx, sess.UserID, day, day)
	if err != nil {
		return insights.DailySummary{}, err
	}
	t, _ := time.Parse(DateLayout, day)
	return insights.Summarize(t, toRecords(acts), u.DailyTargetKg), nil
}

// Report is the insights view over a window.
type Report struct {
	Range       insights.Range           `json:"range"`
	From        string                   `json:"from"`
	To          string                   `json:"to"`
	Granularity insights.Granularity     `json:"granularity"`
	Trend       []insights.Point         `json:"trend"`
	ByCategory  []insights.CategoryTotal `json:"by_category"`
	Tips        []string                 `json:"tips"`
}

// Insights builds trends, the category breakdown and tips for rng.
func (s *Service) Insights(ctx context.Context, sess Session, rng insights.Range) (Report, error) {
	if err := sess.Validate(); err != nil {
		return Report{}, err
	}

	fromT, toT, g := insights.Window(rng, s.now().UTC())
	from, to := fromT.Format(DateLayout), toT.Format(DateLayout)
	acts, err := s.store.ListActivities(ctx, sess.UserID, from, to)
	if err != nil {
		return Report{}, err
	}

	records := toRecords(acts)
	breakdown := insights.ByCategory(records)
	return Report{
		Range:       rng,
		From:        from,
		To:          to,
		Granularity: g,
		Trend:       insights.Trend(records, g),
		ByCategory:  breakdown,
		Tips:        insights.Tips(breakdown),
	}, nil
}

// SetDailyTarget changes the caller's daily target.
func (s *Service) SetDailyTarget(ctx context.Context, sess Session, kg float64) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if kg <= 0 || math.IsNaN(kg) || math.IsInf(kg, 0) {
		return ErrInvalidTarget
	}
	if _, err := s.ensureUser(ctx, sess); err != nil {
		return err
	}
	return s.store.SetDailyTarget(ctx, sess.UserID, kg)
}

// Dashboard is the combined home view.
type Dashboard struct {
	User       User                  `json:"user"`
	Garden     garden.Growth         `json:"garden"`
	Rank       int                   `json:"rank"`
	TopPercent int                   `json:"top_percent"`
	Recent     []Activity            `json:"recent"`
	Today      insights.DailySummary `json:"today"`
}

// Dashboard loads the caller's totals, garden, rank, recent activities and
// today's summary concurrently.
func (s *Service) Dashboard(ctx context.Context, sess Session) (Dashboard, error) {
	u, err := s.Profile(ctx, sess)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{User: u, Garden: garden.Grow(u.TotalPoints)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		board, lbErr := s.Leaderboard(gctx, sess, leaderboard.SortByPoints)
		if lbErr != nil {
			return fmt.Errorf("leaderboard: %w", lbErr)
		}
		d.Rank, d.TopPercent = board.UserRank, board.TopPercent
		return nil
	})
	g.Go(func() error {
		acts, listErr := s.store.ListActivities(gctx, sess.UserID, "", "")
		if listErr != nil {
			return fmt.Errorf("recent activities: %w", listErr)
		}
		d.Recent = acts[:min(len(acts), s.recentLimit)]
		return nil
	})
	g.Go(func() error {
		today, sumErr := s.DailySummary(gctx, sess, "")
		if sumErr != nil {
			return fmt.Errorf("daily summary: %w", sumErr)
		}
		d.Today = today
		return nil
	})

	if err = g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// AdminStats returns store-wide totals. Only admins may call it.
func (s *Service) AdminStats(ctx context.Context, sess Session) (Stats, error) {
	if err := sess.Validate(); err != nil {
		return Stats{}, err
	}
	if !sess.IsAdmin {
		return Stats{}, ErrForbidden
	}
	return s.store.Stats(ctx)
}

func toRecords(acts []Activity) []insights.Record {
	out := make([]insights.Record, 0, len(acts))
	for _, a := range acts {
		t, err := time.Parse(DateLayout, a.Date)
		if err != nil {
			continue
		}
		out = append(out, insights.Record{
			Date:         t,
			CategoryID:   a.CategoryID,
			CategoryName: a.CategoryName,
			CarbonKg:     a.CarbonKg,
		})
	}
	return out
}
