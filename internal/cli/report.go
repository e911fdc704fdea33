package cli

// ReportCmd prints the console report for an existing results table
type ReportCmd struct {
	Input string `arg:"" optional:"" default:"${render_input}" help:"Results table (.csv, .ndjson or .db)"`
	Rows  bool   `default:"true" negatable:"" help:"Include the results table"`
}

// Run executes the report command
func (c *ReportCmd) Run(globals *Globals) error {
	ctx, stop := signalContext()
	defer stop()

	rows, err := loadRows(ctx, globals, c.Input)
	if err != nil {
		return err
	}

	emitter := globals.Emitter()
	if c.Rows {
		if err := emitter.WriteRows("", rows); err != nil {
			return err
		}
	}
	return report(globals, emitter, rows, 0)
}
