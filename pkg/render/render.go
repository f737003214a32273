// Package render turns artist records into HTML fragments for a list.
// Record text is always interpolated through html/template, so names and
// nicknames containing markup end up escaped.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/Sternrassler/artist-pager/pkg/artist"
	"github.com/samber/lo"
)

// DefaultItemTemplate reproduces the artist card markup of the listing page.
const DefaultItemTemplate = `<div class="{{.ItemClass}}"><a href="{{.Href}}"{{if .LinkClass}} class="{{.LinkClass}}"{{end}}>{{.Text}}</a></div>`

// Config holds renderer configuration.
type Config struct {
	// LinkPrefix is prepended to the record ID to form the detail link.
	LinkPrefix string

	// ItemClass is the CSS class of the wrapping element.
	ItemClass string

	// LinkClass is the CSS class of the link, omitted when empty.
	LinkClass string

	// Template overrides DefaultItemTemplate. It is executed with an Item.
	Template string
}

// DefaultConfig returns the artist card configuration.
func DefaultConfig() Config {
	return Config{
		LinkPrefix: "/artists/",
		ItemClass:  "artist-card",
		LinkClass:  "btn-wine",
		Template:   DefaultItemTemplate,
	}
}

// Item is the data a fragment template is executed with.
type Item struct {
	Record    artist.Record
	Href      string
	Text      string
	ItemClass string
	LinkClass string
}

// Renderer renders records into fragments.
type Renderer struct {
	tmpl   *template.Template
	config Config
}

// New parses the item template.
func New(cfg Config) (*Renderer, error) {
	if cfg.Template == "" {
		cfg.Template = DefaultItemTemplate
	}

	tmpl, err := template.New("item").Option("missingkey=error").Parse(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("parse item template: %w", err)
	}

	return &Renderer{tmpl: tmpl, config: cfg}, nil
}

// Render returns the fragment for a single record.
func (r *Renderer) Render(rec artist.Record) (template.HTML, error) {
	item := Item{
		Record:    rec,
		Href:      r.config.LinkPrefix + url.PathEscape(rec.ID.String()),
		Text:      rec.DisplayName(),
		ItemClass: r.config.ItemClass,
		LinkClass: r.config.LinkClass,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, item); err != nil {
		return "", fmt.Errorf("render artist %s: %w", rec.ID, err)
	}

	// Output came from html/template, so it is already escaped.
	return template.HTML(strings.TrimSpace(buf.String())), nil
}

// RenderAll renders records in order. Nothing is returned unless every
// record renders.
func (r *Renderer) RenderAll(records []artist.Record) ([]template.HTML, error) {
	var renderErr error
	fragments := lo.Map(records, func(rec artist.Record, _ int) template.HTML {
		if renderErr != nil {
			return ""
		}
		fragment, err := r.Render(rec)
		if err != nil {
			renderErr = err
		}
		return fragment
	})

	if renderErr != nil {
		return nil, renderErr
	}
	return fragments, nil
}
