// Package site composes and renders the marketing page.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/kvbuilders/site/internal/reveal"
	"github.com/kvbuilders/site/internal/storage"
	"github.com/kvbuilders/site/internal/web"
)

// GalleryPrefix is the storage prefix listed by the gallery section.
const GalleryPrefix = "gallery/"

// Reveal target kinds. The kind is the CSS class the browser animates.
const (
	KindReveal      = "reveal"
	KindRevealLeft  = "reveal-left"
	KindRevealRight = "reveal-right"
)

// Target is an element a section reveals on first sight.
type Target struct {
	Name string
	Kind string
}

// Section is one block of the page.
type Section struct {
	ID    string
	Label string
	// AboveFold sections are visible on load and render already revealed.
	AboveFold bool
	Targets   []Target
}

// Sections lists the page blocks in render order.
var Sections = []Section{
	{ID: "hero", Label: "Home", AboveFold: true, Targets: []Target{
		{"hero-badge", KindReveal}, {"hero-heading", KindReveal}, {"hero-subheading", KindReveal},
	}},
	{ID: "about", Label: "About", Targets: []Target{
		{"about-header", KindReveal}, {"about-story", KindRevealLeft}, {"about-services", KindRevealRight},
	}},
	{ID: "services", Label: "Services", Targets: []Target{
		{"services-header", KindReveal}, {"services-cards", KindReveal},
	}},
	{ID: "gallery", Label: "Gallery", Targets: []Target{
		{"gallery-header", KindReveal}, {"gallery-grid", KindReveal},
	}},
	{ID: "projects", Label: "Projects", Targets: []Target{
		{"projects-header", KindReveal}, {"projects-grid", KindReveal},
	}},
	{ID: "process", Label: "Process", Targets: []Target{
		{"process-header", KindReveal}, {"process-steps", KindReveal},
	}},
	{ID: "contact", Label: "Contact", Targets: []Target{
		{"contact-header", KindReveal}, {"contact-info", KindRevealLeft}, {"contact-form", KindRevealRight},
	}},
}

// sectionData is what a section template sees.
type sectionData struct {
	Content Content
	Gallery []GalleryImage
	targets map[string]string
	marks   *reveal.Marks
}

// Class returns the CSS classes for target: its reveal kind, plus the
// active marker once revealed.
func (d sectionData) Class(name string) string {
	kind, ok := d.targets[name]
	if !ok {
		return ""
	}
	if d.marks.Active(name) {
		return kind + " " + reveal.ActiveClass
	}
	return kind
}

// RenderedSection is a section's markup ready for the layout.
type RenderedSection struct {
	ID    string
	Label string
	HTML  template.HTML
}

type pageData struct {
	Title    string
	Sections []RenderedSection
	Content  Content
	Year     int
}

// Page renders the marketing page.
type Page struct {
	tmpl    *template.Template
	store   storage.Storage
	content Content
	now     func() time.Time
}

// NewPage parses the page templates. store may be nil, in which case the
// gallery shows the default images.
func NewPage(store storage.Storage, content Content) (*Page, error) {
	tmpl, err := web.Parse(nil, "layout.html", "home.html", "sections.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Page{tmpl: tmpl, store: store, content: content, now: time.Now}, nil
}

// Render writes the full page to w.
func (p *Page) Render(ctx context.Context, w io.Writer) error {
	gallery := p.gallery(ctx)

	data := pageData{
		Title:   p.content.Company + " | Construction, Interiors & Real Estate",
		Content: p.content,
		Year:    p.now().Year(),
	}
	for _, s := range Sections {
		html, err := p.renderSection(s, gallery)
		if err != nil {
			return err
		}
		data.Sections = append(data.Sections, RenderedSection{ID: s.ID, Label: s.Label, HTML: html})
	}
	return p.tmpl.ExecuteTemplate(w, "layout", data)
}

// renderSection mounts an observer for the section's own targets, reveals
// what is visible on load and tears the observer down once rendered.
func (p *Page) renderSection(s Section, gallery []GalleryImage) (template.HTML, error) {
	obs := reveal.NewObserver(reveal.DefaultThreshold)
	defer obs.Disconnect()

	data := sectionData{
		Content: p.content,
		Gallery: gallery,
		targets: make(map[string]string, len(s.Targets)),
		marks:   &reveal.Marks{},
	}
	for _, t := range s.Targets {
		data.targets[t.Name] = t.Kind
		obs.Observe(t.Name, data.marks.Reveal)
	}
	if s.AboveFold {
		for _, t := range s.Targets {
			obs.Intersect(t.Name, 1)
		}
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "section-"+s.ID, data); err != nil {
		return "", fmt.Errorf("render section %s: %w", s.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// gallery lists stored gallery images. Storage failures fall back to the
// default images so the page still renders.
func (p *Page) gallery(ctx context.Context) []GalleryImage {
	if p.store == nil {
		return p.content.Gallery
	}
	objs, err := p.store.List(ctx, GalleryPrefix)
	if err != nil {
		slog.Warn("list gallery failed", "error", err)
		return p.content.Gallery
	}
	if len(objs) == 0 {
		return p.content.Gallery
	}
	images := make([]GalleryImage, 0, len(objs))
	for _, o := range objs {
		images = append(images, GalleryImage{Title: titleFromKey(o.Key), URL: o.URL})
	}
	return images
}

// titleFromKey turns "gallery/site-visit_2.jpg" into "Site Visit 2".
func titleFromKey(key string) string {
	base := path.Base(key)
	base = strings.TrimSuffix(base, path.Ext(base))
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
