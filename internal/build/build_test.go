package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"pgregory.net/rapid"

	"github.com/zellyn/pylearn/internal/content"
	"github.com/zellyn/pylearn/internal/curriculum"
	pyerrors "github.com/zellyn/pylearn/internal/errors"
	"github.com/zellyn/pylearn/internal/page"
)

func resolver(t testing.TB) *content.Resolver {
	t.Helper()
	r, err := content.NewResolver(content.DefaultTopics())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func abc(t testing.TB) *curriculum.Manifest {
	t.Helper()
	m, err := curriculum.New("", curriculum.Link([]curriculum.Module{
		{Name: "M", Lessons: []curriculum.Entry{
			{ID: "A", Title: "A", Type: curriculum.TypeAlgorithm},
			{ID: "B", Title: "B", Type: curriculum.TypeLanguage},
			{ID: "C", Title: "C", Type: curriculum.TypeExamBasic},
		}},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// memSink keeps pages in memory and fails for ids in fail.
type memSink struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]bool
}

func (s *memSink) Write(id string, doc []byte) (string, error) {
	if s.fail[id] {
		return "", pyerrors.NewIOError("write", id, errors.New("disk full"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pages == nil {
		s.pages = map[string]string{}
	}
	s.pages[id] = string(doc)
	return id + ".html", nil
}

type memRecorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *memRecorder) Record(_ context.Context, res Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return nil
}

func TestGenerateAllDefaultCourse(t *testing.T) {
	m, err := curriculum.Default()
	if err != nil {
		t.Fatal(err)
	}
	sink, err := NewDirSink(filepath.Join(t.TempDir(), "lessons"))
	if err != nil {
		t.Fatal(err)
	}
	rep, err := GenerateAll(context.Background(), m, resolver(t), page.DefaultSite(), sink, Options{Workers: 4})
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if rep.Total != 85 || rep.Created != 85 {
		t.Fatalf("Report = %d/%d", rep.Created, rep.Total)
	}
	for _, e := range m.Entries() {
		if _, err := os.Stat(filepath.Join(sink.Dir(), e.Filename())); err != nil {
			t.Errorf("missing page for %s: %v", e.ID, err)
		}
	}
	files, _ := os.ReadDir(sink.Dir())
	if len(files) != 85 {
		t.Errorf("output has %d files, want 85", len(files))
	}
}

func TestGenerateAllScenario(t *testing.T) {
	m := abc(t)
	sink := &memSink{}
	rec := &memRecorder{}
	var progress []int
	rep, err := GenerateAll(context.Background(), m, resolver(t), page.DefaultSite(), sink, Options{
		Workers:  1,
		Recorder: rec,
		Progress: func(created, total int, id string) {
			if total != 3 {
				t.Errorf("total = %d", total)
			}
			progress = append(progress, created)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Created != 3 || len(sink.pages) != 3 || len(rec.results) != 3 {
		t.Fatalf("created %d, pages %d, recorded %d", rep.Created, len(sink.pages), len(rec.results))
	}
	if len(progress) != 3 || progress[2] != 3 {
		t.Errorf("progress = %v", progress)
	}

	a := sink.pages["A"]
	if !strings.Contains(a, `<a href="../index.html">← Предыдущий урок</a>`) || !strings.Contains(a, `<a href="B.html">Следующий урок →</a>`) {
		t.Error("A navigation wrong")
	}
	c := sink.pages["C"]
	if !strings.Contains(c, `<a href="B.html">← Предыдущий урок</a>`) || !strings.Contains(c, `<a href="../index.html">Следующий урок →</a>`) {
		t.Error("C navigation wrong")
	}
	if strings.Contains(a, "skulpt") || !strings.Contains(sink.pages["B"], "skulpt") {
		t.Error("runtime scripts misplaced")
	}
	for i, id := range []string{"A", "B", "C"} {
		res := rep.Results[i]
		if res.ID != id || res.Digest != Digest([]byte(sink.pages[id])) || res.Bytes != len(sink.pages[id]) {
			t.Errorf("result %d = %+v", i, res)
		}
	}
}

func TestGenerateAllToleratesWriteFailures(t *testing.T) {
	m := abc(t)
	sink := &memSink{fail: map[string]bool{"B": true}}
	rep, err := GenerateAll(context.Background(), m, resolver(t), page.DefaultSite(), sink, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Total != 3 || rep.Created != 2 {
		t.Errorf("Report = %d/%d", rep.Created, rep.Total)
	}
	failed := rep.Failed()
	if len(failed) != 1 || failed[0].ID != "B" || !errors.Is(failed[0].Err, pyerrors.ErrIO) {
		t.Errorf("Failed() = %+v", failed)
	}
	if _, ok := sink.pages["C"]; !ok {
		t.Error("C not attempted after B failed")
	}
}

func TestGenerateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &memSink{}
	rep, err := GenerateAll(ctx, abc(t), resolver(t), page.DefaultSite(), sink, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if rep.Created != 0 || len(sink.pages) != 0 {
		t.Errorf("wrote pages after cancellation: %d", rep.Created)
	}
}

func TestDirSinkRejectsPathIDs(t *testing.T) {
	sink, err := NewDirSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "../x"} {
		if _, err := sink.Write(id, []byte("x")); !pyerrors.IsValidation(err) {
			t.Errorf("Write(%q) = %v", id, err)
		}
	}
}

func TestDirSinkReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, body := range []string{"first", "second"} {
		if _, err := sink.Write("a", []byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.html"))
	if err != nil || string(got) != "second" {
		t.Errorf("a.html = %q, %v", got, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestNewDirSinkFailsOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDirSink(filepath.Join(file, "out")); !errors.Is(err, pyerrors.ErrIO) {
		t.Errorf("err = %v", err)
	}
}

func TestEveryEntryIsAttempted(t *testing.T) {
	r := resolver(t)
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "lessons")
		var lessons []curriculum.Entry
		fail := map[string]bool{}
		for i := 0; i < n; i++ {
			id := "l-" + string(rune('a'+i))
			lessons = append(lessons, curriculum.Entry{
				ID:   id,
				Type: rapid.SampledFrom(curriculum.Types()).Draw(t, "type"),
			})
			if rapid.Bool().Draw(t, "fail") {
				fail[id] = true
			}
		}
		m, err := curriculum.New("", curriculum.Link([]curriculum.Module{{Name: "M", Lessons: lessons}}))
		if err != nil {
			t.Fatal(err)
		}
		sink := &memSink{fail: fail}
		rep, err := GenerateAll(context.Background(), m, r, page.DefaultSite(), sink, Options{
			Workers: rapid.IntRange(1, 4).Draw(t, "workers"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if rep.Total != n || len(rep.Results) != n || rep.Created != n-len(fail) {
			t.Fatalf("report %d/%d with %d failures", rep.Created, rep.Total, len(fail))
		}
		for i, res := range rep.Results {
			if res.ID != lessons[i].ID {
				t.Fatalf("result %d is %s", i, res.ID)
			}
		}
	})
}
