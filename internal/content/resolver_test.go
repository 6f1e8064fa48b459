package content

import (
	"strings"
	"testing"
	"testing/fstest"

	"pgregory.net/rapid"

	"github.com/zellyn/pylearn/internal/curriculum"
	pyerrors "github.com/zellyn/pylearn/internal/errors"
	"github.com/zellyn/pylearn/internal/quiz"
)

func defaultResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultTopics(), opts...)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestEveryDefaultLessonHasOneWellFormedQuiz(t *testing.T) {
	m, err := curriculum.Default()
	if err != nil {
		t.Fatal(err)
	}
	r := defaultResolver(t, WithManifest(m))
	for _, e := range m.Entries() {
		s := quiz.Scan(r.Resolve(e))
		if s.Containers != 1 || !s.WellFormed() {
			t.Errorf("%s (%s): quiz stats %+v", e.ID, r.Source(e), s)
		}
	}
}

func TestBuiltinSpecialLessons(t *testing.T) {
	r := defaultResolver(t)
	got := r.Special()
	if len(got) != 2 || got[0] != "algo-01" || got[1] != "python-01" {
		t.Fatalf("Special() = %v", got)
	}
}

func TestSpecialLessonWinsOverTypeGenerator(t *testing.T) {
	r := defaultResolver(t)
	e := curriculum.Entry{ID: "algo-01", Type: curriculum.TypeAlgorithm, PrevID: "root", NextID: "algo-02"}
	if src := r.Source(e); src != SourceSpecial {
		t.Fatalf("Source = %q", src)
	}
	body := r.Resolve(e)
	if !strings.Contains(body, "Что такое алгоритм?") {
		t.Error("special body not used")
	}
	if strings.Contains(body, "Следующий урок") {
		t.Error("special lesson was decorated")
	}
}

func TestWithoutSpecialLessons(t *testing.T) {
	r := defaultResolver(t, WithoutSpecialLessons())
	e := curriculum.Entry{ID: "algo-01", Type: curriculum.TypeAlgorithm}
	if src := r.Source(e); src != TypeSource(curriculum.TypeAlgorithm) {
		t.Errorf("Source = %q", src)
	}
}

func TestMissingTopicUsesTypeDefault(t *testing.T) {
	r := defaultResolver(t)
	e := curriculum.Entry{ID: "python-99", Title: "Новый", Type: curriculum.TypeLanguage, PrevID: "root", NextID: "root"}
	body := r.Resolve(e)
	if !strings.Contains(body, "<strong>Python</strong>") {
		t.Errorf("default topic not used:\n%s", body)
	}
	if !quiz.Scan(body).WellFormed() {
		t.Error("quiz not well formed")
	}
}

func TestUnknownTypeUsesFallback(t *testing.T) {
	r := defaultResolver(t)
	for _, typ := range []curriculum.LessonType{curriculum.TypeGeneric, "workshop"} {
		e := curriculum.Entry{ID: "x-1", Type: typ}
		if src := r.Source(e); src != SourceFallback {
			t.Errorf("%s: Source = %q", typ, src)
		}
		s := quiz.Scan(r.Resolve(e))
		if s.Questions != 1 || !s.WellFormed() {
			t.Errorf("%s: quiz stats %+v", typ, s)
		}
	}
}

func TestEditorOnlyInRunnableTypes(t *testing.T) {
	r := defaultResolver(t, WithoutSpecialLessons())
	for _, typ := range curriculum.Types() {
		body := r.Resolve(curriculum.Entry{ID: "t", Type: typ})
		hasEditor := strings.Contains(body, `class="python-editor"`)
		if hasEditor != typ.NeedsRuntime() {
			t.Errorf("%s: editor present = %v", typ, hasEditor)
		}
	}
}

func TestNextUpLink(t *testing.T) {
	m, err := curriculum.Default()
	if err != nil {
		t.Fatal(err)
	}
	r := defaultResolver(t, WithManifest(m))
	e, _ := m.Lookup("python-02")
	next, _ := m.Lookup(e.NextID)
	if body := r.Resolve(e); !strings.Contains(body, `<a href="`+next.Filename()+`">`) {
		t.Errorf("next-up link to %s missing", next.ID)
	}
	entries := m.Entries()
	last := entries[len(entries)-1]
	if body := r.Resolve(last); strings.Contains(body, "Следующий урок") {
		t.Error("last lesson links forward")
	}
}

func TestWithGeneratorOverridesType(t *testing.T) {
	custom := func(e curriculum.Entry, _ Topic) string { return "custom " + e.ID }
	r := defaultResolver(t, WithGenerator("workshop", custom))
	if got := r.Resolve(curriculum.Entry{ID: "w1", Type: "workshop"}); got != "custom w1" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestSpecialLessonValidation(t *testing.T) {
	quizFence := "```quiz\nquestions:\n  - prompt: q\n    options:\n      - text: a\n      - text: b\n        correct: true\n        explanation: ok\n```\n"
	tests := []struct {
		name string
		file string
		src  string
	}{
		{"id mismatch", "a-1.md", "---\nid: b-1\n---\n" + quizFence},
		{"no quiz", "a-1.md", "---\nid: a-1\n---\n## Введение\n"},
		{"two quizzes", "a-1.md", quizFence + "\n" + quizFence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{tt.file: {Data: []byte(tt.src)}}
			_, err := NewResolver(DefaultTopics(), WithSpecialLessons(fsys))
			if !pyerrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	fsys := fstest.MapFS{"a-1.md": {Data: []byte("---\nid: a-1\n---\n" + quizFence)}}
	r, err := NewResolver(DefaultTopics(), WithSpecialLessons(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if src := r.Source(curriculum.Entry{ID: "a-1"}); src != SourceSpecial {
		t.Errorf("Source = %q", src)
	}
}

func TestTopicTextIsEscaped(t *testing.T) {
	topics := NewTopicMapping(map[string]Topic{
		"x": {Name: "<b>", Description: "a & b", Snippet: "if a < b: pass"},
	})
	r, err := NewResolver(topics, WithoutSpecialLessons())
	if err != nil {
		t.Fatal(err)
	}
	for _, typ := range curriculum.Types() {
		body := r.Resolve(curriculum.Entry{ID: "x", Type: typ})
		if strings.Contains(body, "<b>") || strings.Contains(body, "a < b") {
			t.Errorf("%s: unescaped topic text", typ)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := defaultResolver(t)
	rapid.Check(t, func(t *rapid.T) {
		typ := rapid.SampledFrom(append(curriculum.Types(), "other")).Draw(t, "type")
		id := rapid.StringMatching(`[a-z]{1,6}-[0-9]{2}`).Draw(t, "id")
		e := curriculum.Entry{ID: id, Title: "T", Type: typ, PrevID: curriculum.RootID, NextID: curriculum.RootID}
		if r.Resolve(e) != r.Resolve(e) {
			t.Fatal("Resolve is not deterministic")
		}
		if !quiz.Scan(r.Resolve(e)).WellFormed() {
			t.Fatalf("%s: quiz not well formed", typ)
		}
	})
}
