package depthtop

import (
	"encoding/binary"
	"fmt"

	"github.com/calrizien/depthtop/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// CompositorModule owns the wgpu device and renders every window twice per
// frame, once per eye, side by side into the host window.
type CompositorModule struct {
	Config Config
}

// RenderOptions mirrors the shader function constants at runtime. Flipping a
// flag selects a different pre-compiled pipeline variant on the next frame.
type RenderOptions struct {
	HoverEffect     bool
	UseTextureArray bool
	DebugColors     bool
}

func (o *RenderOptions) Variant() shader.VariantSet {
	var s shader.VariantSet
	if o.HoverEffect {
		s = s.With(shader.FunctionConstantHoverEffect)
	}
	if o.UseTextureArray {
		s = s.With(shader.FunctionConstantUseTextureArray)
	}
	if o.DebugColors {
		s = s.With(shader.FunctionConstantDebugColors)
	}
	return s
}

type windowVertex struct {
	pos      [3]float32 `depthtop:"layout" location:"0" format:"float3"`
	texCoord [2]float32 `depthtop:"layout" location:"1" format:"float2"`
}

// Unit quad centered on the origin, CCW from the front (+Z) side. The model
// matrix scales it to the window's physical size.
var windowQuadVertices = []windowVertex{
	{pos: [3]float32{-0.5, -0.5, 0}, texCoord: [2]float32{0, 1}},
	{pos: [3]float32{0.5, -0.5, 0}, texCoord: [2]float32{1, 1}},
	{pos: [3]float32{0.5, 0.5, 0}, texCoord: [2]float32{1, 0}},
	{pos: [3]float32{-0.5, 0.5, 0}, texCoord: [2]float32{0, 0}},
}

var windowQuadIndices = []uint16{0, 1, 2, 0, 2, 3}

type compositorState struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32

	contentTexture *wgpu.Texture
	contentView    *wgpu.TextureView
	sampler        *wgpu.Sampler

	pipelines     map[shader.VariantSet]*wgpu.RenderPipeline
	activeVariant shader.VariantSet
	variantReady  bool

	// Per-window GPU state, keyed by window id. Bind groups are tied to the
	// active pipeline's layout and are rebuilt on a variant switch.
	uniformBuffers   map[uint16]*wgpu.Buffer
	windowBindGroups map[uint16]*wgpu.BindGroup

	eyeBuffers    [shader.EyeCount]*wgpu.Buffer
	eyeBindGroups [shader.EyeCount]*wgpu.BindGroup

	uniformScratch [shader.UniformBlockSize]byte
}

func (mod CompositorModule) Install(app *App, cmd *Commands) {
	var ws *WindowState
	for _, r := range app.resources {
		if s, ok := r.(*WindowState); ok {
			ws = s
		}
	}
	if ws == nil {
		panic("CompositorModule requires PlatformWindowModule")
	}

	gpu := createGpuState(ws)

	state := &compositorState{
		pipelines:        make(map[shader.VariantSet]*wgpu.RenderPipeline),
		uniformBuffers:   make(map[uint16]*wgpu.Buffer),
		windowBindGroups: make(map[uint16]*wgpu.BindGroup),
	}
	state.vertexBuffer, state.indexBuffer = createVertexIndexBuffers(windowQuadVertices, windowQuadIndices, gpu.device)
	state.indexCount = uint32(len(windowQuadIndices))
	state.contentTexture, state.contentView = createContentTextureArray(MaxWindows, gpu)
	state.sampler = createContentSampler(gpu)

	for eye := 0; eye < shader.EyeCount; eye++ {
		state.eyeBuffers[eye] = createUniformBuffer(
			fmt.Sprintf("Eye Params %d", eye),
			encodeEyeParams(uint32(eye)),
			gpu,
		)
	}

	options := &RenderOptions{
		HoverEffect:     mod.Config.Hover.Enabled,
		UseTextureArray: true,
		DebugColors:     mod.Config.DebugColors,
	}

	cmd.AddResources(gpu, state, options)

	app.UseSystem(System(renderOptionsSystem).InStage(Update))
	app.UseSystem(System(contentUploadSystem).InStage(PreRender))
	app.UseSystem(System(compositorRenderSystem).InStage(Render))

	app.Logger().Infof("Compositor ready: %dx%d, format %v", ws.WindowWidth, ws.WindowHeight, gpu.surfaceConfig.Format)
}

// EyeParams is 16 bytes in WGSL; only the first word carries the eye index.
func encodeEyeParams(index uint32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf, index)
	return buf
}

// renderOptionsSystem binds the few compositor keys: Escape quits, Tab cycles
// debug colors, H toggles the hover effect variant.
func renderOptionsSystem(input *Input, options *RenderOptions, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		cmd.Quit()
	}
	if input.JustPressed[KeyTab] {
		options.DebugColors = !options.DebugColors
	}
	if input.JustPressed[KeyH] {
		options.HoverEffect = !options.HoverEffect
	}
}

// contentUploadSystem pushes dirty window content onto the texture array
// layer owned by the window's id.
func contentUploadSystem(cmd *Commands, state *compositorState, gpu *GpuState, assets *AssetServer) {
	MakeQuery2[Window, WindowContent](cmd).Map(func(eid EntityId, win *Window, content *WindowContent) bool {
		if !content.Dirty {
			return true
		}
		// Dirty stays set on a miss so content registered later still uploads.
		if tx, ok := assets.Texture(content.Texture); ok {
			writeContentLayer(state.contentTexture, uint32(win.ID), tx, gpu)
			content.Dirty = false
		}
		return true
	})
}

// ensurePipeline compiles the variant's pipeline on first use and invalidates
// bind groups when the active variant changes (bind groups are created from
// the pipeline's own layout).
func ensurePipeline(state *compositorState, variant shader.VariantSet, gpu *GpuState) *wgpu.RenderPipeline {
	pipeline, ok := state.pipelines[variant]
	if !ok {
		source := variant.VariantSource(shader.CompositorWGSL)
		pipeline = createRenderPipeline("compositor/"+variant.String(), source, windowVertex{}, gpu)
		state.pipelines[variant] = pipeline
	}

	if !state.variantReady || state.activeVariant != variant {
		for id, bg := range state.windowBindGroups {
			bg.Release()
			delete(state.windowBindGroups, id)
		}
		for eye := 0; eye < shader.EyeCount; eye++ {
			if state.eyeBindGroups[eye] != nil {
				state.eyeBindGroups[eye].Release()
			}
			state.eyeBindGroups[eye] = createEyeBindGroup(state, eye, pipeline, gpu)
		}
		state.activeVariant = variant
		state.variantReady = true
	}
	return pipeline
}

func createEyeBindGroup(state *compositorState, eye int, pipeline *wgpu.RenderPipeline, gpu *GpuState) *wgpu.BindGroup {
	layout := pipeline.GetBindGroupLayout(1)
	defer layout.Release()

	bindGroup, err := gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  state.eyeBuffers[eye],
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return bindGroup
}

func ensureWindowBindGroup(state *compositorState, id uint16, pipeline *wgpu.RenderPipeline, gpu *GpuState) *wgpu.BindGroup {
	if bg, ok := state.windowBindGroups[id]; ok {
		return bg
	}

	buffer, ok := state.uniformBuffers[id]
	if !ok {
		buffer = createUniformBuffer(
			fmt.Sprintf("Window Uniforms %d", id),
			make([]byte, shader.UniformBlockSize),
			gpu,
		)
		state.uniformBuffers[id] = buffer
	}

	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	bindGroup, err := gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buffer,
				Size:    wgpu.WholeSize,
			},
			{
				Binding:     1,
				TextureView: state.contentView,
				Size:        wgpu.WholeSize,
			},
			{
				Binding: 2,
				Sampler: state.sampler,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		panic(err)
	}
	state.windowBindGroups[id] = bindGroup
	return bindGroup
}

// compositorRenderSystem renders one frame: refresh every window's uniform
// block, then draw all windows once per eye with per-eye viewports.
func compositorRenderSystem(cmd *Commands, ws *WindowState, gpu *GpuState, state *compositorState, camera *StereoCamera, options *RenderOptions) {
	gpu.reconfigureSurface(ws.WindowWidth, ws.WindowHeight)
	pipeline := ensurePipeline(state, options.Variant(), gpu)

	eyeWidth := float32(gpu.surfaceConfig.Width) / 2
	height := float32(gpu.surfaceConfig.Height)
	if eyeWidth <= 0 || height <= 0 {
		return
	}
	aspect := eyeWidth / height

	// One uniform write per window per frame: the producer side of the
	// hand-off, complete before the submit below.
	var drawIds []uint16
	MakeQuery3[Window, TransformComponent, HoverState](cmd).Map(
		func(eid EntityId, win *Window, t *TransformComponent, hover *HoverState) bool {
			uniforms := BuildWindowUniforms(camera, win, t, hover, aspect)
			uniforms.Put(state.uniformScratch[:])

			ensureWindowBindGroup(state, win.ID, pipeline, gpu)
			if err := gpu.queue.WriteBuffer(state.uniformBuffers[win.ID], 0, state.uniformScratch[:]); err != nil {
				panic(err)
			}
			drawIds = append(drawIds, win.ID)
			return true
		})

	nextTexture, err := gpu.surface.GetCurrentTexture()
	if err != nil {
		panic(err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()
	encoder, err := gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.02, G: 0.02, B: 0.04, A: 1.0},
			},
		},
	})
	defer renderPass.Release()

	renderPass.SetPipeline(pipeline)
	renderPass.SetVertexBuffer(0, state.vertexBuffer, 0, wgpu.WholeSize)
	renderPass.SetIndexBuffer(state.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)

	for eye := 0; eye < shader.EyeCount; eye++ {
		renderPass.SetViewport(float32(eye)*eyeWidth, 0, eyeWidth, height, 0, 1)
		renderPass.SetBindGroup(1, state.eyeBindGroups[eye], nil)
		for _, id := range drawIds {
			renderPass.SetBindGroup(0, state.windowBindGroups[id], nil)
			renderPass.DrawIndexed(state.indexCount, 1, 0, 0, 0)
		}
	}

	err = renderPass.End()
	if err != nil {
		panic(err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	gpu.queue.Submit(cmdBuffer)
	gpu.surface.Present()
}
