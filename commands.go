package fractalbox

// Commands is handed to modules and systems for changes to the App itself.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Quit stops the App after the current frame.
func (cmd *Commands) Quit() {
	cmd.app.requestQuit()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
