package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zellyn/pylearn/internal/ledger"
)

func TestGenerateIsDefaultCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lessons")
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"--out", out}, &stdout, &stdout); err != nil {
		t.Fatalf("run: %v\n%s", err, stdout.String())
	}
	files, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 85 {
		t.Errorf("generated %d files, want 85", len(files))
	}
	if !strings.Contains(stdout.String(), "created=85/85") {
		t.Errorf("log missing created count:\n%s", stdout.String())
	}
}

func TestGenerateRecordsLedger(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.db")
	var stdout bytes.Buffer
	args := []string{"generate", "--out", filepath.Join(dir, "out"), "--ledger", db, "--workers", "2"}
	if err := run(context.Background(), args, &stdout, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}

	l, err := ledger.Open(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	runs, err := l.Runs(context.Background(), 0)
	if err != nil || len(runs) != 1 || runs[0].Created != 85 {
		t.Fatalf("Runs = %+v, %v", runs, err)
	}

	stdout.Reset()
	if err := run(context.Background(), []string{"runs", "--ledger", db, runs[0].ID}, &stdout, &stdout); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "algo-01") || !strings.Contains(stdout.String(), "special") {
		t.Errorf("runs output:\n%s", stdout.String())
	}
}

func TestGenerateFailsWhenOutputCannotBeCreated(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"--out", filepath.Join(file, "lessons")}, &stdout, &stdout); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerateFailsOnBrokenManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "course.yaml")
	src := "modules:\n  - name: M\n    lessons:\n      - {id: a, title: A, type: algorithm, prev: root, next: b}\n"
	if err := os.WriteFile(manifest, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	err := run(context.Background(), []string{"--manifest", manifest, "--out", filepath.Join(dir, "out")}, &stdout, &stdout)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(statErr) {
		t.Error("output directory created for an invalid manifest")
	}
}

func TestValidate(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"validate"}, &stdout, &stdout); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"85 lessons in 12 modules", "special: 2, generated: 83, fallback: 0"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("validate output missing %q:\n%s", want, stdout.String())
		}
	}

	stdout.Reset()
	if err := run(context.Background(), []string{"validate", "--dump", "json"}, &stdout, &stdout); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), `"id": "algo-01"`) {
		t.Errorf("dump:\n%.200s", stdout.String())
	}
}

func TestSiteHandlerLogs(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "algo-01.html"), []byte("<h1>hi</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	h := loggingMiddleware(newLogger(&logs, "info"), siteHandler(root))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d", rr.Code)
	}
	if !strings.Contains(logs.String(), "status=404") || !strings.Contains(logs.String(), "path=/missing.html") {
		t.Errorf("log = %s", logs.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/algo-01.html", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "hi") {
		t.Errorf("algo-01: %d %q", rr.Code, rr.Body.String())
	}
}
