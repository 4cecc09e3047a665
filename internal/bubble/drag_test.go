package bubble_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/metra/internal/bubble"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

var _ = Describe("pointer gestures", func() {
	var (
		engine  *bubble.Engine
		clock   *manualClock
		clicked []string
		start   bubble.Body
	)

	BeforeEach(func() {
		clock = &manualClock{now: time.Unix(0, 0)}
		clicked = nil
		engine = bubble.NewEngine(bubble.DefaultParams())
		engine.SetClock(clock)
		engine.OnClick(func(it bubble.Item) { clicked = append(clicked, it.ID) })
		engine.Mount([]bubble.Item{{ID: "solo", Title: "Global Climate Accord Reached"}}, 800, 600)

		var ok bool
		start, ok = engine.Body("solo")
		Expect(ok).To(BeTrue())
	})

	It("ignores presses on empty canvas", func() {
		Expect(engine.PointerDown(5, 5)).To(BeFalse())
		Expect(engine.DragPhase()).To(Equal(bubble.Idle))
	})

	Context("after a press on a bubble", func() {
		BeforeEach(func() {
			Expect(engine.PointerDown(start.Pos.X, start.Pos.Y)).To(BeTrue())
		})

		It("holds the bubble still", func() {
			Expect(engine.DragPhase()).To(Equal(bubble.PotentialDrag))
			b, _ := engine.Body("solo")
			Expect(b.Vel.X).To(BeZero())
			Expect(b.Vel.Y).To(BeZero())

			engine.Step()
			b, _ = engine.Body("solo")
			Expect(b.Pos).To(Equal(start.Pos))
		})

		It("stays a potential drag inside the threshold", func() {
			engine.PointerMove(start.Pos.X+3, start.Pos.Y)
			Expect(engine.DragPhase()).To(Equal(bubble.PotentialDrag))
			b, _ := engine.Body("solo")
			Expect(b.Pos).To(Equal(start.Pos))
		})

		It("fires the click when released without moving", func() {
			engine.PointerUp(start.Pos.X, start.Pos.Y)
			it, ok := engine.Click(start.Pos.X, start.Pos.Y)
			Expect(ok).To(BeTrue())
			Expect(it.ID).To(Equal("solo"))
			Expect(clicked).To(Equal([]string{"solo"}))
		})

		Context("and a move past the threshold", func() {
			BeforeEach(func() {
				engine.PointerMove(start.Pos.X-20, start.Pos.Y)
			})

			It("follows the pointer", func() {
				Expect(engine.DragPhase()).To(Equal(bubble.Dragging))
				b, _ := engine.Body("solo")
				Expect(b.Pos.X).To(BeNumerically("~", start.Pos.X-20, 1e-9))
				Expect(b.Pos.Y).To(BeNumerically("~", start.Pos.Y, 1e-9))
			})

			It("keeps the bubble inside the canvas", func() {
				engine.PointerMove(-500, -500)
				b, _ := engine.Body("solo")
				Expect(b.Pos.X).To(BeNumerically(">=", b.R))
				Expect(b.Pos.Y).To(BeNumerically(">=", b.R))
			})

			It("releases with momentum bounded by the travel distance", func() {
				engine.PointerUp(start.Pos.X-20, start.Pos.Y)
				Expect(engine.DragPhase()).To(Equal(bubble.Idle))
				b, _ := engine.Body("solo")
				Expect(math.Abs(b.Vel.X)).To(BeNumerically("<=", 0.2))
				Expect(math.Abs(b.Vel.Y)).To(BeNumerically("<=", 0.2))
			})

			It("suppresses the trailing click", func() {
				engine.PointerUp(start.Pos.X-20, start.Pos.Y)
				Expect(engine.JustFinishedDragging()).To(BeTrue())

				_, ok := engine.Click(start.Pos.X-20, start.Pos.Y)
				Expect(ok).To(BeFalse())
				Expect(clicked).To(BeEmpty())
			})

			It("clears the drag flag after the release delay", func() {
				engine.PointerUp(start.Pos.X-20, start.Pos.Y)
				clock.now = clock.now.Add(60 * time.Millisecond)
				Expect(engine.JustFinishedDragging()).To(BeFalse())
			})

			It("does not click the dragged bubble once the release delay passes", func() {
				engine.PointerUp(start.Pos.X-20, start.Pos.Y)
				clock.now = clock.now.Add(60 * time.Millisecond)

				_, ok := engine.Click(start.Pos.X+500, start.Pos.Y+500)
				Expect(ok).To(BeFalse())
				Expect(clicked).To(BeEmpty())
			})
		})
	})

	Describe("hover", func() {
		It("grows the hovered bubble and restores it on leave", func() {
			engine.Hover(start.Pos.X, start.Pos.Y)
			b, _ := engine.Body("solo")
			Expect(engine.Hovered()).To(Equal("solo"))
			Expect(b.R).To(BeNumerically("~", start.OriginalR*1.2, 1e-9))

			engine.Hover(1, 1)
			b, _ = engine.Body("solo")
			Expect(engine.Hovered()).To(BeEmpty())
			Expect(b.R).To(Equal(start.OriginalR))
		})
	})
})
