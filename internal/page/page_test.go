package page

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/zellyn/pylearn/internal/curriculum"
)

func abc(t testing.TB) *curriculum.Manifest {
	t.Helper()
	m, err := curriculum.New("", []curriculum.Module{
		{Name: "Основы", Lessons: []curriculum.Entry{
			{ID: "A", Title: "Урок A", Duration: "10 минут", Type: curriculum.TypeAlgorithm, PrevID: "root", NextID: "B"},
			{ID: "B", Title: "Урок B", NavTitle: "B коротко", Duration: "15 минут", Type: curriculum.TypeLanguage, PrevID: "A", NextID: "C"},
		}},
		{Name: "Экзамен & практика", Lessons: []curriculum.Entry{
			{ID: "C", Title: "Урок C", Duration: "20 минут", Type: curriculum.TypeExamBasic, PrevID: "B", NextID: "root"},
		}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestBuildSidebar(t *testing.T) {
	m := abc(t)
	got := BuildSidebar(m)

	if n := strings.Count(got, `<div class="lesson-group">`); n != 2 {
		t.Errorf("groups = %d, want 2", n)
	}
	for _, want := range []string{
		"<h3>Основы</h3>",
		"<h3>Экзамен &amp; практика</h3>",
		`<span class="toggle-icon">▼</span>`,
		`<li><a href="A.html">Урок A</a></li>`,
		`<li><a href="B.html">B коротко</a></li>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("sidebar missing %q", want)
		}
	}
	if a, c := strings.Index(got, "A.html"), strings.Index(got, "C.html"); a > c {
		t.Error("sidebar out of manifest order")
	}
	if BuildSidebar(m) != got {
		t.Error("BuildSidebar is not deterministic")
	}
}

func TestComposeScenario(t *testing.T) {
	m := abc(t)
	site := DefaultSite()
	sidebar := BuildSidebar(m)

	a, _ := m.Lookup("A")
	pageA := site.Compose(a, "<p>тело</p>", sidebar)
	for _, want := range []string{
		"<title>Урок A - Python для школьников</title>",
		`<body data-lesson-id="A">`,
		`<a href="../index.html">← Предыдущий урок</a>`,
		`<a href="B.html">Следующий урок →</a>`,
		`<div class="lesson-meta">Основы • 10 минут</div>`,
		"<p>тело</p>",
		sidebar,
		`<script src="../js/main.js"></script>`,
		`<button class="btn-primary" id="mark-complete">`,
	} {
		if !strings.Contains(pageA, want) {
			t.Errorf("page A missing %q", want)
		}
	}

	c, _ := m.Lookup("C")
	pageC := site.Compose(c, "", sidebar)
	if !strings.Contains(pageC, `<a href="B.html">← Предыдущий урок</a>`) ||
		!strings.Contains(pageC, `<a href="../index.html">Следующий урок →</a>`) {
		t.Error("page C navigation wrong")
	}
}

func TestRuntimeScripts(t *testing.T) {
	site := DefaultSite()
	for _, typ := range append(curriculum.Types(), "unknown") {
		e := curriculum.Entry{ID: "x", Title: "X", Type: typ, PrevID: "root", NextID: "root"}
		out := site.Compose(e, "", "")
		for _, src := range site.RuntimeScripts {
			if got := strings.Contains(out, src); got != typ.NeedsRuntime() {
				t.Errorf("%s: runtime script present = %v", typ, got)
			}
		}
	}
}

func TestComposeEscapesEntryText(t *testing.T) {
	e := curriculum.Entry{ID: "x", Title: "a < b", Module: "m", PrevID: "root", NextID: "root"}
	out := DefaultSite().Compose(e, "<b>trusted</b>", "")
	if strings.Contains(out, "a < b") {
		t.Error("title not escaped")
	}
	if !strings.Contains(out, "<b>trusted</b>") {
		t.Error("body was escaped")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	site := DefaultSite()
	rapid.Check(t, func(t *rapid.T) {
		e := curriculum.Entry{
			ID:       rapid.StringMatching(`[a-z]{1,8}-[0-9]{2}`).Draw(t, "id"),
			Title:    rapid.String().Draw(t, "title"),
			Module:   rapid.String().Draw(t, "module"),
			Duration: rapid.String().Draw(t, "duration"),
			Type:     rapid.SampledFrom(curriculum.Types()).Draw(t, "type"),
			PrevID:   rapid.SampledFrom([]string{"root", "p-01"}).Draw(t, "prev"),
			NextID:   rapid.SampledFrom([]string{"root", "n-01"}).Draw(t, "next"),
		}
		body := rapid.String().Draw(t, "body")
		if site.Compose(e, body, "nav") != site.Compose(e, body, "nav") {
			t.Fatal("Compose is not deterministic")
		}
	})
}
