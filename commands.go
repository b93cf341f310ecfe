package weatherfx

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Stop asks the frame loop to exit after the current frame.
func (cmd *Commands) Stop() {
	cmd.app.stopRequested = true
}

// Frame returns the number of frames completed before the current one.
func (cmd *Commands) Frame() uint64 {
	return cmd.app.frame
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
