package graph

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/goop/spring"
	"github.com/pthm-cable/goop/zone"
)

// Cursor is a spring-driven probe gliding along a sampled curve. Its x
// position chases a target under spring dynamics; y, value, color, and
// zone segment are read off the view at the current x.
type Cursor struct {
	view *View
	spr  *spring.Spring
}

// NewCursor creates a cursor resting at the middle of the view's
// domain. Stiffness and damping follow spring.New's rules.
func NewCursor(view *View, stiffness, damping float64) (*Cursor, error) {
	if view == nil {
		return nil, fmt.Errorf("graph: nil view")
	}
	spr, err := spring.New(stiffness, damping, (view.MinX()+view.MaxX())/2)
	if err != nil {
		return nil, err
	}
	return &Cursor{view: view, spr: spr}, nil
}

// SetTarget aims the cursor at x, clamped into the view's domain.
func (c *Cursor) SetTarget(x float64) {
	c.spr.SetTarget(clampRange(x, c.view.MinX(), c.view.MaxX()))
}

// Target returns the current target x.
func (c *Cursor) Target() float64 {
	return c.spr.Target()
}

// Step advances the cursor spring by dt seconds and returns the new x.
func (c *Cursor) Step(dt float64) float64 {
	return c.spr.Step(dt)
}

// Jump teleports the cursor to x (clamped) with zero velocity and
// retargets it there.
func (c *Cursor) Jump(x float64) {
	x = clampRange(x, c.view.MinX(), c.view.MaxX())
	c.spr.SetValue(x)
	c.spr.SetTarget(x)
}

// Stop zeroes the cursor's velocity, letting it drift to a halt where
// it is only if the target already matches.
func (c *Cursor) Stop() {
	c.spr.Stop()
}

// Settled reports whether the cursor has converged on its target.
func (c *Cursor) Settled(eps float64) bool {
	return c.spr.Settled(eps)
}

// Rebind attaches the cursor to a new view, keeping its x position and
// target where possible and clamping both into the new domain.
func (c *Cursor) Rebind(view *View) error {
	if view == nil {
		return fmt.Errorf("graph: nil view")
	}
	oldTarget := c.spr.Target()
	x := clampRange(c.spr.Value(), view.MinX(), view.MaxX())
	c.view = view
	c.spr.SetValue(x)
	c.spr.SetTarget(clampRange(oldTarget, view.MinX(), view.MaxX()))
	return nil
}

// X returns the cursor's current x position.
func (c *Cursor) X() float64 {
	return c.spr.Value()
}

// Y returns the curve's display y under the cursor.
func (c *Cursor) Y() float64 {
	return c.view.YAtX(c.X())
}

// Value returns the curve's domain value under the cursor.
func (c *Cursor) Value() float64 {
	return c.view.ValueAt(c.X())
}

// Color returns the zone-blended color under the cursor.
func (c *Cursor) Color() colorful.Color {
	return c.view.ColorAt(c.X())
}

// Segment returns the zone segment under the cursor.
func (c *Cursor) Segment() Segment {
	return c.view.SegmentAt(c.X())
}

// Zone returns the zone under the cursor, by value.
func (c *Cursor) Zone() zone.Zone {
	return c.view.Table().ZoneAt(c.Value())
}
