package shaders

import (
	_ "embed"
)

//go:embed wire.wgsl
var WireWGSL string
