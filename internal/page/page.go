// Package page assembles complete lesson documents: shared chrome, the course
// sidebar, the lesson body and prev/next navigation.
package page

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/zellyn/pylearn/internal/curriculum"
)

//go:embed page.tmpl
var pageTemplate string

var tmpl = template.Must(template.New("page").Parse(pageTemplate))

// Site is the fixed chrome of every page. External assets are referenced by
// URL only.
type Site struct {
	Lang         string
	Brand        string
	TitleSuffix  string
	SidebarTitle string
	Footer       string
	Stylesheet   string
	ClientScript string
	// RuntimeScripts load the in-browser Python engine. They are included
	// only on pages whose lesson type needs it.
	RuntimeScripts []string
	// RootHref is where the "root" boundary marker links to.
	RootHref string
}

// DefaultSite returns the chrome of the Russian course.
func DefaultSite() Site {
	return Site{
		Lang:         "ru",
		Brand:        "🐍 Python для школьников",
		TitleSuffix:  " - Python для школьников",
		SidebarTitle: "Содержание курса",
		Footer:       "Python для школьников © 2024",
		Stylesheet:   "../css/style.css",
		ClientScript: "../js/main.js",
		RuntimeScripts: []string{
			"https://cdn.jsdelivr.net/npm/skulpt@1.2.0/dist/skulpt.min.js",
			"https://cdn.jsdelivr.net/npm/skulpt@1.2.0/dist/skulpt-stdlib.js",
		},
		RootHref: "../index.html",
	}
}

// Href resolves a prev/next reference to a link target.
func (s Site) Href(id string) string {
	if id == curriculum.RootID {
		return s.RootHref
	}
	return id + ".html"
}

type pageData struct {
	Site    Site
	Entry   curriculum.Entry
	Runtime bool
	Sidebar template.HTML
	Body    template.HTML
	Prev    string
	Next    string
}

// Compose renders the full document for e. body and sidebar are trusted HTML
// and are inserted verbatim. Compose is pure.
func (s Site) Compose(e curriculum.Entry, body, sidebar string) string {
	var b strings.Builder
	err := tmpl.Execute(&b, pageData{
		Site:    s,
		Entry:   e,
		Runtime: e.Type.NeedsRuntime(),
		Sidebar: template.HTML(sidebar),
		Body:    template.HTML(body),
		Prev:    s.Href(e.PrevID),
		Next:    s.Href(e.NextID),
	})
	if err != nil {
		// only reachable if the embedded template is broken
		panic("page: " + err.Error())
	}
	return b.String()
}
