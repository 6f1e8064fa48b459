package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/zellyn/pylearn/internal/build"
	"github.com/zellyn/pylearn/internal/content"
	"github.com/zellyn/pylearn/internal/curriculum"
	"github.com/zellyn/pylearn/internal/ledger"
	"github.com/zellyn/pylearn/internal/page"
)

// CLI is the pylearn command line.
type CLI struct {
	LogLevel string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (${enum})"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate every lesson page (default)"`
	Validate ValidateCmd `cmd:"" help:"Check the manifest, topics and hand-authored lessons"`
	Runs     RunsCmd     `cmd:"" help:"List recorded generation runs"`
	Serve    ServeCmd    `cmd:"" help:"Serve a generated site for preview"`
}

// env carries what every command needs at run time.
type env struct {
	ctx    context.Context
	logger *slog.Logger
	stdout io.Writer
}

// Sources are the inputs shared by generate and validate.
type Sources struct {
	Manifest string `help:"Manifest file (.yaml, .yml or .json); the built-in course when empty" type:"existingfile" env:"PYLEARN_MANIFEST"`
	Topics   string `help:"YAML topic file merged over the built-in topics" type:"existingfile"`
	Lessons  string `help:"Directory of hand-authored <id>.md lessons replacing the built-in ones" type:"existingdir"`
}

func (s Sources) load(logger *slog.Logger) (*curriculum.Manifest, *content.Resolver, error) {
	m, err := loadManifest(s.Manifest)
	if err != nil {
		return nil, nil, err
	}

	topics := content.DefaultTopics()
	if s.Topics != "" {
		extra, err := content.LoadTopics(s.Topics)
		if err != nil {
			return nil, nil, err
		}
		topics = topics.Merge(extra)
	}

	opts := []content.Option{content.WithManifest(m), content.WithLogger(logger)}
	if s.Lessons != "" {
		opts = append(opts, content.WithSpecialLessons(os.DirFS(s.Lessons)))
	}
	r, err := content.NewResolver(topics, opts...)
	if err != nil {
		return nil, nil, err
	}
	return m, r, nil
}

func loadManifest(path string) (*curriculum.Manifest, error) {
	if path == "" {
		return curriculum.Default()
	}
	return curriculum.Load(path)
}

// GenerateCmd writes one page per lesson.
type GenerateCmd struct {
	Sources `embed:""`
	Out     string `short:"o" default:"lessons" type:"path" env:"PYLEARN_OUT" help:"Output directory"`
	Workers int    `default:"0" help:"Concurrent renders (0 = number of CPUs)"`
	Ledger  string `type:"path" env:"PYLEARN_LEDGER" help:"SQLite ledger to record the run in"`
}

func (c *GenerateCmd) Run(e *env) error {
	m, r, err := c.load(e.logger)
	if err != nil {
		return err
	}
	sink, err := build.NewDirSink(c.Out)
	if err != nil {
		return err
	}

	opts := build.Options{
		Workers: c.Workers,
		Logger:  e.logger,
		Progress: func(created, total int, id string) {
			e.logger.Debug("Lesson written", "id", id, "created", created, "total", total)
		},
	}

	var run *ledger.Run
	if c.Ledger != "" {
		l, err := ledger.Open(e.ctx, c.Ledger)
		if err != nil {
			return err
		}
		defer l.Close()
		digest, err := manifestDigest(m)
		if err != nil {
			return err
		}
		if run, err = l.BeginRun(e.ctx, digest, m.Len()); err != nil {
			return err
		}
		opts.Recorder = run
	}

	start := time.Now()
	rep, err := build.GenerateAll(e.ctx, m, r, page.DefaultSite(), sink, opts)
	if err != nil {
		return err
	}
	if run != nil {
		if err := run.Finish(e.ctx, rep.Created); err != nil {
			e.logger.Warn("Failed to finish ledger run", "run", run.ID, "error", err)
		}
	}

	for _, res := range rep.Failed() {
		e.logger.Error("Lesson not written", "id", res.ID, "error", res.Err)
	}
	e.logger.Info("Generation finished",
		"created", fmt.Sprintf("%d/%d", rep.Created, rep.Total),
		"out", sink.Dir(),
		"duration", time.Since(start),
	)
	return nil
}

func manifestDigest(m *curriculum.Manifest) (string, error) {
	data, err := m.Encode(curriculum.FormatYAML)
	if err != nil {
		return "", err
	}
	return build.Digest(data), nil
}

// ValidateCmd loads every input without writing anything.
type ValidateCmd struct {
	Sources `embed:""`
	Dump    string `enum:"none,yaml,json" default:"none" help:"Print the normalised manifest as ${enum}"`
}

func (c *ValidateCmd) Run(e *env) error {
	m, r, err := c.load(e.logger)
	if err != nil {
		return err
	}

	if c.Dump != "none" {
		data, err := m.Encode(curriculum.Format(c.Dump))
		if err != nil {
			return err
		}
		_, err = e.stdout.Write(data)
		return err
	}

	counts := map[string]int{}
	for _, entry := range m.Entries() {
		counts[r.Source(entry)]++
		if !entry.Type.Known() {
			e.logger.Warn("Unknown lesson type, using fallback template", "id", entry.ID, "type", entry.Type)
		}
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, mod := range m.Modules() {
		fmt.Fprintf(tw, "%s\t%d lessons\n", mod.Name, len(mod.Lessons))
	}
	tw.Flush()
	fmt.Fprintf(e.stdout, "\n%d lessons in %d modules\n", m.Len(), len(m.Modules()))
	fmt.Fprintf(e.stdout, "special: %d, generated: %d, fallback: %d\n",
		counts[content.SourceSpecial], m.Len()-counts[content.SourceSpecial]-counts[content.SourceFallback], counts[content.SourceFallback])
	return nil
}

// RunsCmd prints the ledger.
type RunsCmd struct {
	Ledger string `required:"" type:"existingfile" env:"PYLEARN_LEDGER" help:"SQLite ledger"`
	Limit  int    `default:"10" help:"Number of runs to list (0 = all)"`
	RunID  string `arg:"" name:"run" optional:"" help:"Run id to list pages for"`
}

func (c *RunsCmd) Run(e *env) error {
	l, err := ledger.Open(e.ctx, c.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if c.RunID != "" {
		arts, err := l.Artifacts(e.ctx, c.RunID)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "LESSON\tSOURCE\tBYTES\tDIGEST\tERROR")
		for _, a := range arts {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.12s\t%s\n", a.LessonID, a.Source, a.Bytes, a.Digest, a.Error)
		}
		return nil
	}

	runs, err := l.Runs(e.ctx, c.Limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "RUN\tSTARTED\tCREATED\tMANIFEST")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%.12s\n", r.ID, r.StartedAt.Local().Format(time.DateTime), r.Created, r.Total, r.ManifestDigest)
	}
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("pylearn"),
		kong.Description("Generate the static lesson pages of the Python course."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stdout, cli.LogLevel)
	slog.SetDefault(logger)
	return kctx.Run(&env{ctx: ctx, logger: logger, stdout: stdout})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("pylearn failed", "error", err)
		stop()
		os.Exit(1)
	}
}
