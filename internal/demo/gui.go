package demo

import (
	"errors"

	"github.com/rawbytedev/visitree"
	"github.com/rawbytedev/visitree/pkg/geom"
)

// ScrollContentPresenter offsets its content by the scroll vector.
type ScrollContentPresenter struct {
	Scroll                geom.Vec2
	CanHorizontallyScroll bool
	CanVerticallyScroll   bool
}

func (p *ScrollContentPresenter) SetVScroll(y float32) { p.Scroll.Y = y }
func (p *ScrollContentPresenter) SetHScroll(x float32) { p.Scroll.X = x }

func (p *ScrollContentPresenter) EnableVerticalScroll(on bool)   { p.CanVerticallyScroll = on }
func (p *ScrollContentPresenter) EnableHorizontalScroll(on bool) { p.CanHorizontallyScroll = on }

// ContentOffset is where content is placed relative to the presenter.
func (p *ScrollContentPresenter) ContentOffset() geom.Vec2 {
	return geom.Vec2{X: -p.Scroll.X, Y: -p.Scroll.Y}
}

func (p *ScrollContentPresenter) Visit(v *visitree.Visitor) error {
	return errors.Join(
		v.Vec2("Scroll", &p.Scroll),
		v.Bool("CanHorizontallyScroll", &p.CanHorizontallyScroll),
		v.Bool("CanVerticallyScroll", &p.CanVerticallyScroll),
	)
}

// Panel is a GUI node. Parent and Children point at each other, so a panel
// tree is a cyclic graph.
type Panel struct {
	Name       string
	Bounds     geom.Rect
	Background geom.Color
	Image      *Texture
	Presenter  ScrollContentPresenter
	Parent     *Panel
	Children   []*Panel
}

// AddChild attaches c under p.
func (p *Panel) AddChild(c *Panel) {
	c.Parent = p
	p.Children = append(p.Children, c)
}

// Layout places every child at its own bounds shifted by the scroll offset,
// clamping each axis that cannot scroll.
func (p *Panel) Layout() {
	off := p.Presenter.ContentOffset()
	if !p.Presenter.CanHorizontallyScroll {
		off.X = 0
	}
	if !p.Presenter.CanVerticallyScroll {
		off.Y = 0
	}
	for _, c := range p.Children {
		c.Bounds.X += off.X
		c.Bounds.Y += off.Y
	}
}

func (p *Panel) Visit(v *visitree.Visitor) error {
	return errors.Join(
		v.String("Name", &p.Name),
		v.Rect("Bounds", &p.Bounds),
		v.Color("Background", &p.Background),
		visitree.Pointer(v, "Image", &p.Image),
		v.Object("Presenter", &p.Presenter),
		visitree.Pointer(v, "Parent", &p.Parent),
		visitree.PointerArray(v, "Children", &p.Children),
	)
}
