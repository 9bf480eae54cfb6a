package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/gradeview"
	"github.com/fwojciec/gradeview/fs"
	"github.com/fwojciec/gradeview/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of tests run concurrently per exercise.
const DefaultWorkers = 4

// ErrNoCommand is returned when an exercise has no run command.
var ErrNoCommand = errors.New("no run command configured")

// Grader runs a suite against submission directories and reports outcomes.
type Grader struct {
	Out        io.Writer
	Logger     *zap.Logger
	Aligner    gradeview.Aligner
	Classifier gradeview.Classifier
	Renderer   *lipgloss.Renderer
	Runner     gradeview.Runner
	Repository gradeview.Repository // Optional; required when Pull is set

	// Optional outcome log.
	Saver       gradeview.OutcomeSaver
	ResultsPath string

	// Optional source listing.
	Tokenizer gradeview.Tokenizer
	Detector  gradeview.LanguageDetector

	Workers    int
	Pull       bool
	Dry        bool
	ShowSource bool
	Now        func() time.Time
}

// graded is the result of running and classifying one test.
type graded struct {
	test           gradeview.TestCase
	result         gradeview.ExecutionResult
	classification gradeview.Classification
	err            error
}

// Grade grades every submission directory in order and returns all outcomes.
// Submissions whose checkout cannot be refreshed and exercises whose source
// is missing or fails to build are reported and skipped.
func (g *Grader) Grade(ctx context.Context, suite *gradeview.Suite, dirs []string) ([]gradeview.Outcome, error) {
	for _, e := range suite.Exercises {
		if len(suite.RunArgs(e)) == 0 {
			return nil, fmt.Errorf("exercise %q: %w", e.Name, ErrNoCommand)
		}
	}

	var all []gradeview.Outcome
	for _, dir := range dirs {
		outcomes, err := g.gradeSubmission(ctx, suite, dir)
		if err != nil {
			return all, err
		}
		all = append(all, outcomes...)
	}
	return all, nil
}

func (g *Grader) gradeSubmission(ctx context.Context, suite *gradeview.Suite, dir string) ([]gradeview.Outcome, error) {
	log := g.logger().With(zap.String("submission", dir))
	fmt.Fprintln(g.Out, g.Renderer.Heading(submissionName(dir)))

	if g.Pull && !g.Dry {
		if err := g.Repository.Pull(ctx, dir); err != nil {
			log.Warn("pull failed, skipping submission", zap.Error(err))
			fmt.Fprintf(g.Out, "pull failed: %v\n\n", err)
			return nil, nil
		}
	}

	var commit string
	if g.Repository != nil {
		head, err := g.Repository.Head(ctx, dir)
		if err != nil {
			log.Debug("commit unknown", zap.Error(err))
		}
		commit = head
	}

	// Commands run inside the submission, so {dir} and the working
	// directory must not depend on where grade was started.
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve submission %s: %w", dir, err)
	}

	var outcomes []gradeview.Outcome
	for _, e := range suite.Exercises {
		results, err := g.gradeExercise(ctx, suite, root, e, log.With(zap.String("exercise", e.Name)))
		if err != nil {
			return outcomes, err
		}
		for _, r := range results {
			o := g.outcome(dir, commit, e, r)
			if err := g.save(o); err != nil {
				return outcomes, err
			}
			outcomes = append(outcomes, o)
		}
	}

	if !g.Dry {
		fmt.Fprintf(g.Out, "%s: %s\n", submissionName(dir), summary(outcomes))
	}
	fmt.Fprintln(g.Out, strings.Repeat("=", 33))
	return outcomes, nil
}

// gradeExercise locates, builds and tests one exercise inside the absolute
// submission directory dir. Skipped exercises return no results and no error.
func (g *Grader) gradeExercise(ctx context.Context, suite *gradeview.Suite, dir string, e gradeview.Exercise, log *zap.Logger) ([]graded, error) {
	var source string
	if e.Source != "" {
		found, err := fs.FindSource(dir, e.Source)
		if err != nil {
			log.Info("source not found", zap.String("pattern", e.Source), zap.Error(err))
			fmt.Fprintf(g.Out, "%s: Not found\n\n", e.Name)
			return nil, nil
		}
		source = found
	}

	fmt.Fprintln(g.Out, g.Renderer.Heading(exerciseTitle(e.Name, source)))
	if g.ShowSource && source != "" {
		g.printSource(filepath.Join(dir, filepath.FromSlash(source)), log)
	}

	vars := gradeview.Vars(dir, e, source)
	if args := gradeview.Expand(suite.BuildArgs(e), vars); len(args) > 0 {
		build := gradeview.Command{Args: args, Dir: dir}
		if g.Dry {
			fmt.Fprintf(g.Out, "$ %s\n", build)
		} else if err := g.build(ctx, build); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("build failed, skipping exercise", zap.Stringer("command", build), zap.Error(err))
			fmt.Fprintf(g.Out, "%s: build failed\n\n", e.Name)
			return nil, nil
		}
	}

	args := gradeview.Expand(suite.RunArgs(e), vars)
	if g.Dry {
		for _, tc := range e.Tests {
			fmt.Fprintf(g.Out, "$ %s < %s\n", gradeview.Command{Args: args, Dir: dir}, tc.Name)
		}
		fmt.Fprintln(g.Out)
		return nil, nil
	}

	results, err := g.runTests(ctx, dir, args, e.Tests, log)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		g.report(r)
	}
	fmt.Fprintln(g.Out)
	return results, nil
}

func (g *Grader) build(ctx context.Context, cmd gradeview.Command) error {
	res, err := g.Runner.Run(ctx, cmd)
	switch {
	case err != nil:
		return err
	case res.TimedOut:
		return errors.New("timed out")
	case !res.Succeeded():
		return fmt.Errorf("exit status %s", exitStatus(res.ExitStatus))
	}
	return nil
}

// runTests runs all tests of an exercise concurrently and returns their
// results in test order. Only a cancelled context aborts the run.
func (g *Grader) runTests(ctx context.Context, dir string, args []string, tests []gradeview.TestCase, log *zap.Logger) ([]graded, error) {
	results := make([]graded, len(tests))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.Workers, 1))

	for i, tc := range tests {
		eg.Go(func() error {
			cmd := gradeview.Command{Args: args, Dir: dir, Stdin: tc.Input}
			res, err := g.Runner.Run(egCtx, cmd)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				log.Error("test could not be run", zap.String("test", tc.Name), zap.Error(err))
				results[i] = graded{test: tc, result: res, err: err}
				return nil
			}

			alignment, err := g.Aligner.Align(tc.Output, res.Stdout)
			if err != nil {
				log.Error("test output cannot be compared", zap.String("test", tc.Name), zap.Error(err))
				results[i] = graded{test: tc, result: res, err: err}
				return nil
			}

			c := g.Classifier.Classify(res, alignment)
			log.Debug("graded",
				zap.String("test", tc.Name),
				zap.String("verdict", string(c.Verdict)),
				zap.Bool("timed_out", res.TimedOut),
			)
			results[i] = graded{test: tc, result: res, classification: c}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// report prints the summary line of a test and, unless it is PERFECT, the
// side-by-side comparison.
func (g *Grader) report(r graded) {
	if r.err != nil {
		fmt.Fprintf(g.Out, "- %s: %s %v\n", r.test.Name, g.Renderer.Verdict("ERROR"), r.err)
		return
	}
	fmt.Fprintf(g.Out, "- %s: %s input: %s expected: %s output: %s\n",
		r.test.Name,
		g.Renderer.Verdict(r.classification.Verdict),
		quote(r.test.Input),
		quote(r.test.Output),
		quote(r.result.Stdout),
	)
	if r.classification.Verdict != gradeview.VerdictPerfect {
		fmt.Fprint(g.Out, g.Renderer.Render(r.classification.Expected, r.classification.Actual))
	}
}

func (g *Grader) printSource(path string, log *zap.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("cannot read source", zap.String("path", path), zap.Error(err))
		return
	}
	var language string
	if g.Detector != nil {
		language = g.Detector.DetectFromPath(path)
	}
	var lines [][]gradeview.Token
	if g.Tokenizer != nil {
		lines = g.Tokenizer.TokenizeLines(language, string(data))
	} else {
		for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
			lines = append(lines, []gradeview.Token{{Text: line}})
		}
	}
	fmt.Fprintln(g.Out, g.Renderer.RenderSource(lines))
}

func (g *Grader) outcome(dir, commit string, e gradeview.Exercise, r graded) gradeview.Outcome {
	o := gradeview.Outcome{
		Submission: dir,
		Commit:     commit,
		Exercise:   e.Name,
		Test:       r.test.Name,
		Input:      r.test.Input,
		Expected:   r.test.Output,
		Output:     r.result.Stdout,
		ExitStatus: r.result.ExitStatus,
		TimedOut:   r.result.TimedOut,
		GradedAt:   g.now(),
	}
	if r.err != nil {
		o.Error = r.err.Error()
		return o
	}
	o.Verdict = r.classification.Verdict
	if o.Verdict != gradeview.VerdictPerfect {
		o.Diff = lipgloss.Strip(g.Renderer.Render(r.classification.Expected, r.classification.Actual))
	}
	return o
}

func (g *Grader) save(o gradeview.Outcome) error {
	if g.Saver == nil || g.ResultsPath == "" {
		return nil
	}
	if err := g.Saver.Save(g.ResultsPath, o); err != nil {
		return fmt.Errorf("save outcome: %w", err)
	}
	return nil
}

func (g *Grader) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Grader) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}
