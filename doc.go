// Package lens applies real-time pixel filters to a live frame stream and
// renders the result at interactive frame rate.
//
// # Render loop
//
// A [RenderLoop] pulls frames from a [FrameSource], copies them into a
// [FrameBuffer], runs the active filter in place and pushes the result to a
// [Presenter], once per tick:
//
//	loop, err := lens.NewRenderLoop(src, presenter, lens.LoopConfig{
//		Filter: lens.FilterKaleidoscope,
//		Logger: logger,
//	})
//	if err != nil {
//		return err
//	}
//	if err := loop.Start(ctx); err != nil {
//		return err // device unavailable, permission denied, ...
//	}
//	defer loop.Dispose()
//
//	ticks, stop := lens.NewTicker(60)
//	defer stop()
//	return loop.Run(ctx, ticks)
//
// The loop moves through Idle, Initializing, Running and Disposing. Dispose
// cancels further ticks, releases the source and only then frees buffers.
// Game-loop drivers (see package display) call [RenderLoop.Tick] directly.
//
// # Filters
//
// Filters are a closed set identified by [FilterID] and described by
// [Descriptor] records from [Filters]. Each is an [ApplyFunc]: a
// deterministic function of the pixels, the elapsed animation time and an
// optional [FilterState]. Elapsed time is passed in explicitly, so a filter
// run on the same input at the same time always produces the same output.
//
//   - identity: output equals input
//   - trail: 0.8*current + 0.2*previous output
//   - pixelate: 10px blocks point-sampled at their top-left pixel
//   - kaleidoscope: rotating radial copies around the centre
//   - ripple: circular displacement wave
//   - ascii: 10px cells rendered as glyphs from [ASCIIRamp]
//
// [RenderLoop.SetActiveFilter] swaps the active filter; the new filter starts
// with an empty state on the next tick. All filters share one animation
// clock.
//
// Frame sources live in package source, the Ebitengine window in package
// display and the donburi event bridge in the lens/ecs module.
package lens
