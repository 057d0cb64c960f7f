package fractalbox

import (
	"fmt"
)

// RendererTag names the module that presents frames: the GPU window
// renderer or the headless snapshot writer. Only one may be installed.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer panics if a different renderer is already installed.
func ensureSingleRenderer(app *App, name string) {
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}
