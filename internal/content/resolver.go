// Package content produces the body HTML of each lesson.
//
// A Resolver tries its strategies in a fixed order: hand-authored lessons
// first, then the generator registered for the lesson type, then the generic
// fallback template.
package content

import (
	"embed"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/zellyn/pylearn/internal/curriculum"
	"github.com/zellyn/pylearn/internal/docgen"
	pyerrors "github.com/zellyn/pylearn/internal/errors"
)

//go:embed lessons/*.md
var builtinLessons embed.FS

// Source names of the strategies.
const (
	SourceSpecial  = "special"
	SourceFallback = "fallback"
	sourceType     = "type:"
)

// TypeSource is the source name of the generator for t.
func TypeSource(t curriculum.LessonType) string {
	return sourceType + string(t)
}

// strategy produces a body for e, or reports ok=false to pass to the next one.
type strategy interface {
	name(e curriculum.Entry) string
	resolve(e curriculum.Entry) (body string, ok bool)
}

type specialStrategy struct {
	bodies map[string]string
}

func (s specialStrategy) name(curriculum.Entry) string { return SourceSpecial }

func (s specialStrategy) resolve(e curriculum.Entry) (string, bool) {
	body, ok := s.bodies[e.ID]
	return body, ok
}

type typeStrategy struct {
	topics     TopicMapping
	generators map[curriculum.LessonType]Generator
}

func (s typeStrategy) name(e curriculum.Entry) string { return TypeSource(e.Type) }

func (s typeStrategy) resolve(e curriculum.Entry) (string, bool) {
	gen, ok := s.generators[e.Type]
	if !ok {
		return "", false
	}
	return gen(e, s.topics.For(e.ID, e.Type)), true
}

type fallbackStrategy struct {
	topics TopicMapping
}

func (s fallbackStrategy) name(curriculum.Entry) string { return SourceFallback }

func (s fallbackStrategy) resolve(e curriculum.Entry) (string, bool) {
	return Fallback(e, s.topics.For(e.ID, e.Type)), true
}

// Resolver maps lesson entries to body HTML. It is safe for concurrent use.
type Resolver struct {
	strategies []strategy
	manifest   *curriculum.Manifest
	special    []string
}

type config struct {
	lessons    fs.FS
	manifest   *curriculum.Manifest
	generators map[curriculum.LessonType]Generator
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*config)

// WithSpecialLessons replaces the built-in hand-authored lessons with the
// markdown files at the root of fsys, one <id>.md per lesson.
func WithSpecialLessons(fsys fs.FS) Option {
	return func(c *config) { c.lessons = fsys }
}

// WithoutSpecialLessons disables hand-authored lessons.
func WithoutSpecialLessons() Option {
	return func(c *config) { c.lessons = nil }
}

// WithManifest lets generated lessons link to the next lesson by title.
func WithManifest(m *curriculum.Manifest) Option {
	return func(c *config) { c.manifest = m }
}

// WithGenerator registers (or replaces) the generator for a lesson type.
func WithGenerator(t curriculum.LessonType, g Generator) Option {
	return func(c *config) { c.generators[t] = g }
}

// WithLogger sets the logger used while loading lessons.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// NewResolver builds a resolver over topics. Hand-authored lessons are
// converted here, so a malformed lesson fails construction rather than a run.
func NewResolver(topics TopicMapping, opts ...Option) (*Resolver, error) {
	lessons, err := fs.Sub(builtinLessons, "lessons")
	if err != nil {
		return nil, err
	}
	c := config{
		lessons:    lessons,
		generators: Generators(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	bodies, err := loadSpecial(c.lessons, c.logger)
	if err != nil {
		return nil, err
	}
	special := make([]string, 0, len(bodies))
	for id := range bodies {
		special = append(special, id)
	}
	sort.Strings(special)

	return &Resolver{
		strategies: []strategy{
			specialStrategy{bodies: bodies},
			typeStrategy{topics: topics, generators: c.generators},
			fallbackStrategy{topics: topics},
		},
		manifest: c.manifest,
		special:  special,
	}, nil
}

// loadSpecial converts every <id>.md file at the root of fsys.
func loadSpecial(fsys fs.FS, logger *slog.Logger) (map[string]string, error) {
	bodies := map[string]string{}
	if fsys == nil {
		return bodies, nil
	}
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, pyerrors.NewIOError("read", name, err)
		}
		doc, err := docgen.Convert(src)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: %w", name, err)
		}
		id := strings.TrimSuffix(path.Base(name), ".md")
		if doc.Meta.ID != "" && doc.Meta.ID != id {
			return nil, pyerrors.NewValidationError(name+": id", doc.Meta.ID, "frontmatter id does not match file name")
		}
		if len(doc.Quizzes) != 1 {
			return nil, pyerrors.NewValidationError(name+": quiz", fmt.Sprint(len(doc.Quizzes)), "a lesson must contain exactly one quiz")
		}
		bodies[id] = doc.HTML
		logger.Debug("loaded lesson", "id", id, "title", doc.Meta.Title)
	}
	return bodies, nil
}

// Special lists the ids with hand-authored content, sorted.
func (r *Resolver) Special() []string {
	return append([]string(nil), r.special...)
}

// Resolve returns the body HTML for e.
func (r *Resolver) Resolve(e curriculum.Entry) string {
	body, _ := r.resolve(e)
	return body
}

// Source names the strategy that answers for e.
func (r *Resolver) Source(e curriculum.Entry) string {
	_, source := r.resolve(e)
	return source
}

// ResolveSource returns both the body and the name of the strategy that
// produced it.
func (r *Resolver) ResolveSource(e curriculum.Entry) (string, string) {
	return r.resolve(e)
}

func (r *Resolver) resolve(e curriculum.Entry) (string, string) {
	for _, s := range r.strategies {
		body, ok := s.resolve(e)
		if !ok {
			continue
		}
		source := s.name(e)
		if source != SourceSpecial {
			body += r.nextUp(e)
		}
		return body, source
	}
	// fallbackStrategy always answers
	panic("content: no strategy resolved " + e.ID)
}

// nextUp points generated lessons at the following lesson.
func (r *Resolver) nextUp(e curriculum.Entry) string {
	if r.manifest == nil || e.NextID == curriculum.RootID {
		return ""
	}
	next, ok := r.manifest.Lookup(e.NextID)
	if !ok {
		return ""
	}
	return fmt.Sprintf("<div class=\"note\">\n    <h4>Следующий урок</h4>\n    <p><a href=\"%s\">%s</a></p>\n</div>\n",
		html.EscapeString(next.Filename()), html.EscapeString(next.Title))
}
