package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/vburojevic/eccstat/internal/tui"
)

// BrowseCmd opens the interactive table viewer
type BrowseCmd struct {
	Input string `arg:"" optional:"" default:"${render_input}" help:"Results table (.csv, .ndjson or .db)"`
}

// isInteractive reports whether stdin and stdout are terminals
var isInteractive = func() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout} {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return false
		}
	}
	return true
}

// Run executes the browse command
func (c *BrowseCmd) Run(globals *Globals) error {
	if !isInteractive() {
		return outputErrorCommon(globals, CodeNotInteractive, "browse requires an interactive terminal",
			"Use `eccstat report` for non-interactive output")
	}

	ctx, stop := signalContext()
	defer stop()

	rows, err := loadRows(ctx, globals, c.Input)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(c.Input, rows), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
