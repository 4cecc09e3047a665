package bubble

import "testing"

func TestPointersFanOut(t *testing.T) {
	hub := NewPointers()
	var got []string
	unsubA := hub.Subscribe(func(ev PointerEvent) { got = append(got, "a:"+ev.Kind.String()) })
	hub.Subscribe(func(ev PointerEvent) { got = append(got, "b:"+ev.Kind.String()) })

	hub.Publish(PointerEvent{Kind: KindDown})
	unsubA()
	unsubA()
	hub.Publish(PointerEvent{Kind: KindUp})

	want := []string{"a:down", "b:down", "b:up"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if hub.Len() != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.Len())
	}
}

func TestDispatchRoutesEvents(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.SetClock(&fakeClock{})
	e.Mount([]Item{{ID: "only", Title: "only"}}, 800, 600)
	b, _ := e.Body("only")

	var clicked []string
	e.OnClick(func(it Item) { clicked = append(clicked, it.ID) })

	e.Dispatch(PointerEvent{Kind: KindDown, X: b.Pos.X, Y: b.Pos.Y})
	if e.DragPhase() != PotentialDrag {
		t.Fatalf("expected potential drag, got %s", e.DragPhase())
	}
	e.Dispatch(PointerEvent{Kind: KindUp, X: b.Pos.X, Y: b.Pos.Y})
	e.Dispatch(PointerEvent{Kind: KindClick, X: b.Pos.X, Y: b.Pos.Y})

	if len(clicked) != 1 || clicked[0] != "only" {
		t.Errorf("expected one click on only, got %v", clicked)
	}

	e.Dispatch(PointerEvent{Kind: KindMove, X: b.Pos.X, Y: b.Pos.Y})
	if e.Hovered() != "only" {
		t.Errorf("expected hover, got %q", e.Hovered())
	}
	e.Dispatch(PointerEvent{Kind: KindLeave})
	if e.Hovered() != "" {
		t.Errorf("expected hover cleared, got %q", e.Hovered())
	}
}
