// Package view provides list and control implementations for the pager:
// in-memory elements for tests and headless use, and a list that streams
// fragments to a writer.
package view

import (
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
)

// List is an in-memory container of appended fragments.
type List struct {
	mu       sync.RWMutex
	children []template.HTML
}

// NewList creates a list pre-populated with existing children.
func NewList(existing ...template.HTML) *List {
	return &List{children: append([]template.HTML(nil), existing...)}
}

// Append adds a fragment after the existing children.
func (l *List) Append(fragment template.HTML) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.children = append(l.children, fragment)
}

// Children returns a copy of the fragments in insertion order.
func (l *List) Children() []template.HTML {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]template.HTML(nil), l.children...)
}

// Len returns the number of children.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.children)
}

// Control is an element with visibility and enabled state. It serves as
// both the trigger and the loading indicator.
type Control struct {
	mu      sync.RWMutex
	name    string
	visible bool
	enabled bool

	// OnChange, when set, is called after every state change.
	OnChange func(name string, visible, enabled bool)
}

// NewControl creates a visible, enabled control.
func NewControl(name string) *Control {
	return &Control{name: name, visible: true, enabled: true}
}

// SetVisible shows or hides the control.
func (c *Control) SetVisible(visible bool) {
	c.mu.Lock()
	c.visible = visible
	name, enabled, onChange := c.name, c.enabled, c.OnChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(name, visible, enabled)
	}
}

// SetEnabled enables or disables the control.
func (c *Control) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	name, visible, onChange := c.name, c.visible, c.OnChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(name, visible, enabled)
	}
}

// Visible reports whether the control is shown.
func (c *Control) Visible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible
}

// Enabled reports whether the control accepts input.
func (c *Control) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Active reports whether the control is both visible and enabled.
func (c *Control) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible && c.enabled
}

// StreamList writes each appended fragment as one line to a writer.
type StreamList struct {
	mu    sync.Mutex
	out   io.Writer
	count int
}

// NewStreamList creates a list writing to out.
func NewStreamList(out io.Writer) *StreamList {
	return &StreamList{out: out}
}

// Append writes the fragment followed by a newline. Write errors are logged;
// the list interface has no error path.
func (s *StreamList) Append(fragment template.HTML) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintln(s.out, string(fragment)); err != nil {
		log.Warn().Err(err).Str("component", "view").Msg("Failed to write fragment")
		return
	}
	s.count++
}

// Len returns the number of fragments written.
func (s *StreamList) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
