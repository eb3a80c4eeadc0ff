package shader

import (
	_ "embed"
)

// CompositorWGSL is the base listing for the window-surface pipeline.
// Compile it through VariantSet.VariantSource; the listing references the
// ENABLE_* consts the variant set prepends.
//
//go:embed compositor.wgsl
var CompositorWGSL string
