// Package bubble implements the bubble-map layout engine.
//
// An [Engine] turns a slice of [Item] records into circles on a fixed-size
// canvas and animates them with a small hand-rolled physics model:
//
//   - [RadiusScale]: square-root mapping from label length to radius
//   - [Layout]: initial ring placement with a small random velocity
//   - [Engine.Step]: center gravity, friction, speed clamp, Euler
//     integration, boundary bounce and pairwise collision
//   - [Engine.Dispatch]: pointer gesture handling (click vs drag)
//   - [Loop]: frame-driven driver with deterministic teardown
//   - [Runner]: headless driver collecting frames and metrics
//
// # Ownership
//
// Physics state lives in a map keyed by item id and is never written back
// into the caller's items. Every [Engine.Mount] discards the previous state.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Exactly one goroutine may own an
// engine at a time: either a Bubble Tea Update loop or a [Loop].
package bubble
