// Package viz is the terminal dashboard built on Bubble Tea.
//
// The dashboard shows events as a grid of cards or as a bubble map whose
// bubbles are simulated by [bubble.Engine] and drawn on a braille
// [Canvas]. It also lists sources with add and delete, and opens an event
// detail view that can look for more sources.
//
// # Key Bindings
//
//	tab   - Toggle grid and bubble layouts
//	s     - Sources list (a add, d delete, y copy URL)
//	enter - Open the selected event
//	f     - Find more sources (detail view)
//	m     - Toggle mock and live data
//	t     - Cycle color themes
//	q     - Quit
package viz
