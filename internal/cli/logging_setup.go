package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/logging"
)

// setupLogging configures logging from the config and the --debug flag, then
// attaches the logger, a trace ID and the audit logger to the command context.
func (a *app) setupLogging(cmd *cobra.Command) {
	loggingCfg := a.cfg.Logging

	if a.flags.debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	a.logResult = &result
	logger := logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && a.flags.debug {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)

	auditLogger := logging.NewAuditLogger(logging.AuditLoggerConfig{
		Enabled: loggingCfg.Audit.Enabled,
		File:    loggingCfg.Audit.File,
		Logger:  &logger,
	})
	ctx = logging.ContextWithAuditLogger(ctx, auditLogger)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")
}

// cleanup closes the audit logger and the log file.
func (a *app) cleanup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := logging.AuditLoggerFromContext(ctx).Close(); err != nil {
		return fmt.Errorf("closing audit log: %w", err)
	}
	if err := a.logResult.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}
