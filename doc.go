// Package scrub drives animation from scroll position for [Ebitengine].
//
// A page is a stack of [Section] values mounted on a [Scene]. A section owns
// a tree of [Node] values and, optionally, a list of [Segment] tweens. The
// scene turns the scroll offset into a progress value in [0, 1] for each
// section's [PinnedRegion] and evaluates the section's [Timeline] at that
// progress, so scrolling down plays the animation and scrolling up rewinds
// it exactly.
//
// # Quick start
//
//	scene := scrub.NewScene(scrub.SceneConfig{})
//
//	hero := scrub.NewSection("hero")
//	hero.Pinned, hero.Extent = true, 3
//	title := scrub.NewLabel("title", "Hello")
//	hero.Add(title)
//	hero.Segments = []scrub.Segment{
//		scrub.FromTo(title, scrub.PropOpacity, 0, 0.3, scrub.Scalar(0), scrub.Scalar(1)),
//	}
//	if err := scene.Mount(hero); err != nil {
//		log.Fatal(err)
//	}
//	scrub.Run(scene, scrub.RunConfig{Title: "Demo", Width: 1280, Height: 720})
//
// Pages can also be described in YAML and loaded with [LoadDocument].
//
// # Timelines
//
// A [Timeline] is pure: [Timeline.Evaluate] writes the same values for the
// same progress no matter what was evaluated before. Each segment has its
// own window [Start, Start+Duration]. When windows on one property overlap,
// the last declared segment that is mid-flight wins; otherwise the last one
// that has finished; before every window the property holds the From value
// of the earliest segment. [Stagger] and [Crossfade] build common segment
// patterns.
//
// # Progress
//
// [ProgressSource] samples the viewport for every registered region. It
// listens for scroll and resize events only while it has subscribers and
// recomputes at most once per frame from the latest scroll offset. A new
// subscriber gets its current value synchronously.
//
// [Smoother] adds scrub lag and [Player] plays a timeline on a clock, either
// on its own or when a region is entered ([PlayOnEnter]).
//
// # Wizards
//
// [Wizard] is a stepped form whose step changes are animated by a
// [StepTransition]: the old step slides out, the displayed step swaps at the
// midpoint, and the new step slides in from the direction of travel. Tweens
// are built on [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package scrub
