package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/logging"
	"github.com/rshade/countries/internal/tui"
)

// setupLogging configures logging from the loaded config and CLI flags, and
// stores the logger and a trace ID on the command's context.
func setupLogging(cmd *cobra.Command, loggingCfg config.LoggingConfig) logging.LogPathResult {
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
	}

	// The browser redraws the whole screen; log lines on stderr would corrupt it.
	if cmd.Annotations[annotationLogToFile] == "true" &&
		tui.DetectOutputMode(false, false, false) == tui.OutputModeInteractive &&
		loggingCfg.File == "" {
		loggingCfg.File = config.DefaultLogPath()
	} else if debug {
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
