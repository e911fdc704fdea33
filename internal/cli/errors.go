package cli

import (
	"github.com/vburojevic/eccstat/internal/output"
)

// Error codes reported in error records
const (
	CodeResultsDirNotFound = "RESULTS_DIR_NOT_FOUND"
	CodeNoLogFiles         = "NO_LOG_FILES"
	CodeNoRows             = "NO_ROWS"
	CodeWriteFailed        = "WRITE_FAILED"
	CodeReadFailed         = "READ_FAILED"
	CodeRenderFailed       = "RENDER_FAILED"
	CodeInvalidFilter      = "INVALID_FILTER"
	CodeInvalidChart       = "INVALID_CHART"
	CodeNotInteractive     = "NOT_INTERACTIVE"
	CodeConfigFailed       = "CONFIG_FAILED"
)

// outputErrorCommon normalizes error emission across commands: an error
// record on stdout in ndjson, a styled line on stderr in text.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	cliErr := &CLIError{Code: code, Message: message}
	if len(hint) > 0 {
		cliErr.Hint = hint[0]
	}
	if globals == nil {
		return cliErr
	}
	if globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, cliErr.Hint)
	} else {
		output.NewTextWriter(globals.Stderr).WriteError(code, message, cliErr.Hint)
	}
	return cliErr
}

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, emitter *output.Emitter, msg string) {
	if globals.Quiet {
		return
	}
	if emitter != nil && emitter.IsNDJSON() {
		emitter.WriteWarning(msg)
		return
	}
	output.NewTextWriter(globals.Stderr).WriteWarning(msg)
}

// emitInfo respects quiet.
func emitInfo(globals *Globals, emitter *output.Emitter, msg, runID, path string) {
	if globals.Quiet {
		return
	}
	emitter.WriteInfo(msg, runID, path)
}

// CLIError is a structured error already reported to the user. main only
// needs to set the exit status.
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}
