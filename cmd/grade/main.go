package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	lipglosslib "github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/gradeview"
	"github.com/fwojciec/gradeview/bubbletea"
	"github.com/fwojciec/gradeview/chroma"
	"github.com/fwojciec/gradeview/csv"
	"github.com/fwojciec/gradeview/fs"
	"github.com/fwojciec/gradeview/git"
	"github.com/fwojciec/gradeview/jsonl"
	"github.com/fwojciec/gradeview/lcs"
	"github.com/fwojciec/gradeview/lipgloss"
	"github.com/fwojciec/gradeview/process"
	"github.com/fwojciec/gradeview/verdict"
	"github.com/fwojciec/gradeview/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// RootOptions holds flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Color   string
	Width   int

	suiteLoader   gradeview.SuiteLoader
	outcomeLoader gradeview.OutcomeLoader
	rosterLoader  gradeview.RosterLoader
	repository    gradeview.Repository
	viewer        gradeview.Viewer
}

// CommandOption configures the collaborators of the commands.
type CommandOption func(*RootOptions)

// WithSuiteLoader sets the loader used for suite files.
func WithSuiteLoader(l gradeview.SuiteLoader) CommandOption {
	return func(o *RootOptions) {
		o.suiteLoader = l
	}
}

// WithOutcomeLoader sets the loader used by the view command.
func WithOutcomeLoader(l gradeview.OutcomeLoader) CommandOption {
	return func(o *RootOptions) {
		o.outcomeLoader = l
	}
}

// WithRosterLoader sets the loader used by the clone command.
func WithRosterLoader(l gradeview.RosterLoader) CommandOption {
	return func(o *RootOptions) {
		o.rosterLoader = l
	}
}

// WithRepository sets the version control access used to pull, inspect and
// clone submissions.
func WithRepository(r gradeview.Repository) CommandOption {
	return func(o *RootOptions) {
		o.repository = r
	}
}

// WithViewer sets the pager used by --view and the view command.
func WithViewer(v gradeview.Viewer) CommandOption {
	return func(o *RootOptions) {
		o.viewer = v
	}
}

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Timeout       time.Duration
	Workers       int
	StrictDeletes bool
	Pull          bool
	Dry           bool
	Results       string
	ShowSource    bool
	Command       string // Run command for directory suites
	Build         string // Build command for directory suites
	Source        string // Source pattern for directory suites
	View          bool
	KeepOrder     bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand creates the grade command writing reports to out.
// Suite files load as YAML, outcomes load from JSONL, rosters load from
// CSV, submissions use git and reports page in the terminal viewer unless
// options say otherwise.
func NewRootCommand(out io.Writer, cmdOpts ...CommandOption) *cobra.Command {
	opts := &RootOptions{
		suiteLoader:   yaml.NewLoader(),
		outcomeLoader: jsonl.NewLoader(),
		rosterLoader:  csv.NewLoader(),
		repository:    git.NewRunner(),
		viewer:        bubbletea.NewViewer(bubbletea.WithTheme(lipgloss.DefaultTheme())),
	}
	for _, opt := range cmdOpts {
		opt(opts)
	}

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade program output against expected references",
		Long: `grade runs each exercise of a suite against student submissions,
compares the output with the expected reference and reports a verdict
per test with a side-by-side colored comparison.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.Color {
			case ColorAuto, ColorAlways, ColorNever:
				return nil
			}
			return fmt.Errorf("invalid color %q: must be one of auto, always, never", opts.Color)
		},
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", ColorAuto, "color output (auto|always|never)")
	cmd.PersistentFlags().IntVar(&opts.Width, "width", lipgloss.DefaultWidth, "column width of the comparison, 0 disables wrapping")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewCloneCommand(opts))
	return cmd
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <suite> <submission-dir>...",
		Short: "Grade submissions against a suite",
		Long: `Grade each submission directory against a suite.

The suite is either a YAML file or a directory of <test>.in/<test>.out
pairs. Submissions are graded by surname, the part of the directory name
after the first dot, unless --keep-order is given. Commands may use the placeholders {dir}, {name}, {source} and
{stem}.

Examples:
  grade run lab1.yaml repos/Anna.Puig repos/Joan.Vidal
  grade run lab1.yaml repos/* --pull --results out/lab1.jsonl
  grade run tests/Sum --command "python3 {source}" --source "**/{name}.py" repos/Anna.Puig`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", gradeview.DefaultTimeout, "per-test timeout, overrides the suite")
	cmd.Flags().IntVar(&opts.Workers, "workers", DefaultWorkers, "tests run concurrently per exercise")
	cmd.Flags().BoolVar(&opts.StrictDeletes, "strict-deletes", false, "treat missing whitespace as a failure")
	cmd.Flags().BoolVar(&opts.Pull, "pull", false, "git pull each submission before grading")
	cmd.Flags().BoolVar(&opts.Dry, "dry", false, "print commands without running them")
	cmd.Flags().StringVar(&opts.Results, "results", "", "append outcomes to this JSONL file")
	cmd.Flags().BoolVar(&opts.ShowSource, "show-source", false, "print each located source file")
	cmd.Flags().StringVar(&opts.Command, "command", "", "run command for directory suites")
	cmd.Flags().StringVar(&opts.Build, "build", "", "build command for directory suites")
	cmd.Flags().StringVar(&opts.Source, "source", "", "source pattern for directory suites")
	cmd.Flags().BoolVar(&opts.View, "view", false, "page the report in a terminal viewer")
	cmd.Flags().BoolVar(&opts.KeepOrder, "keep-order", false, "grade submissions in argument order instead of by surname")

	return cmd
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view <results.jsonl>",
		Short: "Page through previously saved outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := rootOpts.outcomeLoader.Load(args[0])
			if err != nil {
				return fmt.Errorf("load outcomes: %w", err)
			}
			renderer := newRenderer(rootOpts, cmd.OutOrStdout())
			return rootOpts.viewer.View(cmd.Context(), args[0], FormatOutcomes(renderer, outcomes))
		},
	}
}

// NewCloneCommand creates the clone command.
func NewCloneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <roster.csv> <dir>",
		Short: "Clone the repositories listed in a roster",
		Long: `Clone each student repository listed in a roster into <dir>.

Each roster line is "name,repository". The checkout directory joins the
first and third words of the name with a dot. HTTPS repository URLs are
cloned over SSH. Existing checkouts are left alone; refresh them with
"grade run --pull".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(rootOpts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			students, err := rootOpts.rosterLoader.Load(args[0])
			if err != nil {
				return err
			}
			c := &Cloner{
				Out:        cmd.OutOrStdout(),
				Logger:     logger,
				Repository: rootOpts.repository,
			}
			return c.Clone(cmd.Context(), students, args[1])
		},
	}
}

func runGrade(cmd *cobra.Command, opts *RunOptions, suitePath string, dirs []string) error {
	ctx := cmd.Context()

	logger, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	suite, err := loadSuite(suitePath, opts)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		suite.Timeout = opts.Timeout
	}
	logger.Debug("suite loaded",
		zap.String("path", suitePath),
		zap.Int("exercises", len(suite.Exercises)),
		zap.Duration("timeout", suite.TestTimeout()),
	)

	var report bytes.Buffer
	out := cmd.OutOrStdout()
	if opts.View {
		out = &report
	}

	classifierOpts := []verdict.ClassifierOption{}
	if opts.StrictDeletes {
		classifierOpts = append(classifierOpts, verdict.WithDeletePolicy(verdict.StrictDeletes))
	}

	theme := lipgloss.DefaultTheme()
	tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(theme.Palette()))
	if err != nil {
		return err
	}

	g := &Grader{
		Out:        out,
		Logger:     logger,
		Aligner:    lcs.NewAligner(),
		Classifier: verdict.NewClassifier(classifierOpts...),
		Renderer:   newRenderer(opts.RootOptions, cmd.OutOrStdout()),
		Runner:     process.NewRunner(process.WithTimeout(suite.TestTimeout())),
		Repository: opts.repository,
		Tokenizer:  tokenizer,
		Detector:   chroma.NewDetector(),
		Workers:    opts.Workers,
		Pull:       opts.Pull,
		Dry:        opts.Dry,
		ShowSource: opts.ShowSource,
	}
	if opts.Results != "" {
		g.Saver = jsonl.NewSaver()
		g.ResultsPath = opts.Results
	}

	if !opts.KeepOrder {
		dirs = append([]string(nil), dirs...)
		gradeview.SortSubmissions(dirs)
	}
	outcomes, err := g.Grade(ctx, suite, dirs)
	if err != nil {
		return err
	}
	logger.Info("grading finished",
		zap.Int("submissions", len(dirs)),
		zap.Int("outcomes", len(outcomes)),
		zap.Stringer("tally", gradeview.TallyOf(outcomes)),
	)

	if opts.View {
		return opts.viewer.View(ctx, suitePath, report.String())
	}
	return nil
}

// loadSuite reads a YAML suite file or a directory of file pairs.
func loadSuite(path string, opts *RunOptions) (*gradeview.Suite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return opts.suiteLoader.Load(path)
	}
	return fs.NewLoader(
		fs.WithCommand(strings.Fields(opts.Command)),
		fs.WithBuild(strings.Fields(opts.Build)),
		fs.WithSource(opts.Source),
	).Load(path)
}

// newRenderer creates the report renderer for the --color and --width flags.
func newRenderer(opts *RootOptions, out io.Writer) *lipgloss.Renderer {
	rendererOpts := []lipgloss.RendererOption{lipgloss.WithWidth(opts.Width)}
	switch opts.Color {
	case ColorAlways:
		rendererOpts = append(rendererOpts, lipgloss.WithLipglossRenderer(lipgloss.ColorRenderer(out)))
	case ColorNever:
		rendererOpts = append(rendererOpts, lipgloss.WithPlain())
	default:
		rendererOpts = append(rendererOpts, lipgloss.WithLipglossRenderer(lipglosslib.NewRenderer(out)))
	}
	return lipgloss.NewRenderer(lipgloss.DefaultTheme(), rendererOpts...)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// FormatOutcomes lays out saved outcomes as a report, one block per
// submission.
func FormatOutcomes(r *lipgloss.Renderer, outcomes []gradeview.Outcome) string {
	var sb strings.Builder
	for i, o := range outcomes {
		if i == 0 || o.Submission != outcomes[i-1].Submission {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(r.Heading(submissionName(o.Submission)))
			sb.WriteString("\n")
		}
		if i == 0 || o.Submission != outcomes[i-1].Submission || o.Exercise != outcomes[i-1].Exercise {
			sb.WriteString(r.Heading(o.Exercise))
			sb.WriteString("\n")
		}
		if o.Error != "" {
			fmt.Fprintf(&sb, "- %s: %s %s\n", o.Test, r.Verdict("ERROR"), o.Error)
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s input: %s expected: %s output: %s\n",
			o.Test, r.Verdict(o.Verdict), quote(o.Input), quote(o.Expected), quote(o.Output))
		sb.WriteString(o.Diff)
	}
	return sb.String()
}
