package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// AuditEntry records one state-changing operation.
type AuditEntry struct {
	Command    string
	TraceID    string
	UserID     string
	Parameters map[string]string
	Success    bool
	Points     int
	CarbonKg   float64
	Error      string
	Duration   time.Duration
	Timestamp  time.Time
}

// NewAuditEntry starts an entry for command.
func NewAuditEntry(command, traceID string) *AuditEntry {
	return &AuditEntry{
		Command:   command,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}
}

// WithUser sets the acting user.
func (e *AuditEntry) WithUser(userID string) *AuditEntry {
	e.UserID = userID
	return e
}

// WithParameters sets request parameters.
func (e *AuditEntry) WithParameters(params map[string]string) *AuditEntry {
	e.Parameters = params
	return e
}

// WithSuccess marks the entry successful with the points and kg awarded.
func (e *AuditEntry) WithSuccess(points int, carbonKg float64) *AuditEntry {
	e.Success = true
	e.Points = points
	e.CarbonKg = carbonKg
	return e
}

// WithError marks the entry failed.
func (e *AuditEntry) WithError(msg string) *AuditEntry {
	e.Success = false
	e.Error = msg
	return e
}

// WithDuration sets the duration since start.
func (e *AuditEntry) WithDuration(start time.Time) *AuditEntry {
	e.Duration = time.Since(start)
	return e
}

// AuditLogger writes audit entries.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry)
	Enabled() bool
	Close() error
}

// AuditLoggerConfig configures NewAuditLogger.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
	// Logger is used when File is empty.
	Logger *zerolog.Logger
}

// NewAuditLogger returns an AuditLogger for cfg. A disabled config, or a file
// that cannot be opened, yields a no-op logger.
func NewAuditLogger(cfg AuditLoggerConfig) AuditLogger {
	if !cfg.Enabled {
		return noopAuditLogger{}
	}

	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			return noopAuditLogger{}
		}
		l := zerolog.New(f).With().Timestamp().Logger()
		return &zerologAuditLogger{logger: l, closer: f.Close}
	}

	if cfg.Logger != nil {
		return &zerologAuditLogger{logger: *cfg.Logger}
	}
	return noopAuditLogger{}
}

type zerologAuditLogger struct {
	logger zerolog.Logger
	closer func() error
}

func (a *zerologAuditLogger) Log(_ context.Context, entry AuditEntry) {
	ev := a.logger.Info().
		Bool("audit", true).
		Str("command", entry.Command).
		Str(TraceIDField, entry.TraceID).
		Bool("success", entry.Success).
		Dur("duration", entry.Duration).
		Time("at", entry.Timestamp)
	if entry.UserID != "" {
		ev = ev.Str("user_id", entry.UserID)
	}
	if len(entry.Parameters) > 0 {
		ev = ev.Interface("parameters", entry.Parameters)
	}
	if entry.Success {
		ev = ev.Int("points", entry.Points).Float64("carbon_kg", entry.CarbonKg)
	} else {
		ev = ev.Str("error", entry.Error)
	}
	ev.Msg("audit")
}

func (a *zerologAuditLogger) Enabled() bool { return true }

func (a *zerologAuditLogger) Close() error {
	if a.closer == nil {
		return nil
	}
	closer := a.closer
	a.closer = nil
	return closer()
}

type noopAuditLogger struct{}

func (noopAuditLogger) Log(context.Context, AuditEntry) {}
func (noopAuditLogger) Enabled() bool                   { return false }
func (noopAuditLogger) Close() error                    { return nil }

type auditLoggerKey struct{}

// ContextWithAuditLogger stores a in ctx.
func ContextWithAuditLogger(ctx context.Context, a AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, a)
}

// AuditLoggerFromContext returns the audit logger in ctx, or a no-op logger.
func AuditLoggerFromContext(ctx context.Context) AuditLogger {
	if ctx != nil {
		if a, ok := ctx.Value(auditLoggerKey{}).(AuditLogger); ok && a != nil {
			return a
		}
	}
	return noopAuditLogger{}
}
