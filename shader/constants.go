package shader

import (
	"fmt"
	"strings"
)

// FunctionConstant is a compile-time ordinal selecting among pre-built shader
// variants. The ordinals are a closed, stable set: variant caches key on them,
// so reordering would silently select the wrong compiled shader.
type FunctionConstant uint32

const (
	FunctionConstantHoverEffect FunctionConstant = iota
	FunctionConstantUseTextureArray
	FunctionConstantDebugColors

	functionConstantCount
)

func (c FunctionConstant) String() string {
	switch c {
	case FunctionConstantHoverEffect:
		return "HoverEffect"
	case FunctionConstantUseTextureArray:
		return "UseTextureArray"
	case FunctionConstantDebugColors:
		return "DebugColors"
	}
	return fmt.Sprintf("FunctionConstant(%d)", uint32(c))
}

// wgslOverride names the WGSL const each ordinal toggles.
func (c FunctionConstant) wgslOverride() string {
	switch c {
	case FunctionConstantHoverEffect:
		return "ENABLE_HOVER_EFFECT"
	case FunctionConstantUseTextureArray:
		return "ENABLE_TEXTURE_ARRAY"
	case FunctionConstantDebugColors:
		return "ENABLE_DEBUG_COLORS"
	}
	panic(fmt.Sprintf("shader: unknown function constant %d", uint32(c)))
}

// VariantSet is a bitmask over FunctionConstant ordinals. It identifies one
// pre-compiled shader variant; the compositor keeps one pipeline per set.
type VariantSet uint32

func (s VariantSet) With(c FunctionConstant) VariantSet { return s | 1<<c }
func (s VariantSet) Has(c FunctionConstant) bool        { return s&(1<<c) != 0 }

func (s VariantSet) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for c := FunctionConstant(0); c < functionConstantCount; c++ {
		if s.Has(c) {
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, "|")
}

// VariantSource prepends the boolean const overrides for this variant set to
// the base WGSL listing. WGSL has no Metal-style function constants, so each
// variant is a separately compiled module with the switches baked in as consts;
// the compiler strips the disabled branches.
func (s VariantSet) VariantSource(base string) string {
	var b strings.Builder
	for c := FunctionConstant(0); c < functionConstantCount; c++ {
		fmt.Fprintf(&b, "const %s: bool = %t;\n", c.wgslOverride(), s.Has(c))
	}
	b.WriteString(base)
	return b.String()
}
