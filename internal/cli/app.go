package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/config"
	"github.com/rshade/ecoquest/internal/logging"
	"github.com/rshade/ecoquest/internal/store"
)

// projectOverlay is merged over the user config when present in the working
// directory.
const projectOverlay = ".ecoquest.yaml"

// app carries the state shared between the root command and its children.
type app struct {
	flags     rootFlags
	lookupEnv config.LookupFunc

	cfg       *config.Config
	logResult *logging.LogPathResult
}

// loadConfig reads the config file, the project overlay, the environment
// and the persistent flags, in increasing precedence.
func (a *app) loadConfig(cmd *cobra.Command) error {
	path := a.flags.configPath
	if path == "" {
		if v, ok := a.lookupEnv(config.EnvConfig); ok && v != "" {
			path = v
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(projectOverlay); statErr == nil {
		abs, _ := filepath.Abs(projectOverlay)
		if abs != cfg.Path() {
			if err = config.ShallowMergeYAML(cfg, projectOverlay); err != nil {
				return err
			}
		}
	}

	if err = cfg.ApplyEnv(a.lookupEnv); err != nil {
		return err
	}
	if a.flags.dbPath != "" {
		cfg.Store.Path = a.flags.dbPath
	}
	if a.flags.user != "" {
		cfg.Profile.UserID = a.flags.user
	}
	if cmd.Flags().Changed("output") {
		if err = cfg.Set(config.KeyOutputFormat, a.flags.output); err != nil {
			return err
		}
	}

	a.cfg = cfg
	return nil
}

// session returns the local user's session. A missing user ID is generated
// once and saved to the config file.
func (a *app) session(cmd *cobra.Command) (activity.Session, error) {
	if a.cfg.EnsureProfile() {
		if err := a.cfg.Save(); err != nil {
			return activity.Session{}, fmt.Errorf("saving new profile: %w", err)
		}
		cmd.PrintErrf("Created local profile %s in %s\n", a.cfg.Profile.UserID, a.cfg.Path())
	}
	return activity.Session{
		UserID:   a.cfg.Profile.UserID,
		Username: a.cfg.Profile.Username,
		Email:    a.cfg.Profile.Email,
		IsAdmin:  a.cfg.Profile.Admin,
	}, nil
}

// openService opens the store and returns the workflow service over it.
// The returned func closes the store.
func (a *app) openService(ctx context.Context) (*activity.Service, func(), error) {
	st, err := store.Open(ctx, a.cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	svc := activity.NewService(st, activity.WithDefaultTarget(a.cfg.Scoring.DailyTargetKg))
	return svc, func() {
		if cerr := st.Close(); cerr != nil {
			logging.FromContext(ctx).Warn().Ctx(ctx).Err(cerr).Msg("closing store")
		}
	}, nil
}

// withService runs fn with the service and the caller's session.
func (a *app) withService(
	cmd *cobra.Command,
	fn func(ctx context.Context, svc *activity.Service, sess activity.Session) error,
) error {
	sess, err := a.session(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	svc, closeStore, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, svc, sess)
}

// auditContext holds common context for audit logging within a command.
type auditContext struct {
	logger  logging.AuditLogger
	traceID string
	userID  string
	params  map[string]string
	start   time.Time
	command string
}

func newAuditContext(ctx context.Context, command, userID string, params map[string]string) *auditContext {
	return &auditContext{
		logger:  logging.AuditLoggerFromContext(ctx),
		traceID: logging.TraceIDFromContext(ctx),
		userID:  userID,
		params:  params,
		start:   time.Now(),
		command: command,
	}
}

func (a *auditContext) logFailure(ctx context.Context, err error) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithUser(a.userID).
		WithParameters(a.params).
		WithError(err.Error()).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

func (a *auditContext) logSuccess(ctx context.Context, points int, carbonKg float64) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithUser(a.userID).
		WithParameters(a.params).
		WithSuccess(points, carbonKg).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// friendly rewrites workflow errors into CLI wording.
func friendly(err error) error {
	switch {
	case errors.Is(err, activity.ErrForbidden):
		return fmt.Errorf("%w: set %s to true to use admin commands", err, config.KeyProfileAdmin)
	case errors.Is(err, activity.ErrNotAuthenticated):
		return fmt.Errorf("%w: set %s or pass --user", err, config.KeyProfileUserID)
	default:
		return err
	}
}
