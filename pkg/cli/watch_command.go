package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/blake2b"

	"github.com/wfgate/gh-wfgate/pkg/console"
	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/sliceutil"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
	"github.com/wfgate/gh-wfgate/pkg/timeutil"
	"github.com/wfgate/gh-wfgate/pkg/tty"
	"github.com/wfgate/gh-wfgate/pkg/workflow"
)

var watchLog = logger.New("cli:watch_command")

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]...",
		Short: "Validate workflow files continuously as they change",
		Long: `Watch the workflow directory and revalidate whenever a workflow file or the
conventions file changes. Event bursts are debounced, and saves that do not
change file content (editor chmod, atomic-save renames) skip revalidation.

All validate flags apply to every pass. Press Ctrl-C to stop; watch always
exits 0 on interrupt.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` watch                       # Watch .github/workflows
  ` + string(constants.CLIExtensionPrefix) + ` watch ci.yml                # Watch a single file
  ` + string(constants.CLIExtensionPrefix) + ` watch --quick               # Fast passes on each save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := validateOptionsFromFlags(cmd, args)

			if ValidateOutputFormat(opts.Format) != nil {
				PrintFormatError(opts.Format)
				return NewExitError(workflow.ExitFatal)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runWatch(ctx, opts); err != nil {
				PrintValidationError(err)
				return NewExitError(workflow.ExitFatal)
			}
			return nil
		},
	}

	addValidationFlags(cmd)
	return cmd
}

// runWatch validates once, then revalidates on debounced filesystem events
// until ctx is cancelled. Interruption is the normal way out and is not an
// error.
func runWatch(ctx context.Context, opts *ValidateOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(opts) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("cannot watch %s: %w", dir, err)
		}
		watchLog.Printf("Watching directory: %s", dir)
	}

	for _, line := range console.RenderTitleBox("wfgate watch", 40) {
		fmt.Fprintln(os.Stderr, line)
	}
	fmt.Fprint(os.Stderr, console.RenderTree(watchTree(opts)))

	started := time.Now()
	var passes atomic.Int64
	opts.Progress = watchProgress()
	digests := contentDigests(watchTargets(opts))
	watchValidate(ctx, opts)
	passes.Add(1)

	// Revalidation runs on timer goroutines. The mutex keeps passes from
	// overlapping; the counter is atomic because the interrupt path reads it.
	var revalidateMu sync.Mutex
	revalidate := func() {
		revalidateMu.Lock()
		defer revalidateMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		current := contentDigests(watchTargets(opts))
		if digestsEqual(digests, current) {
			watchLog.Print("Content digests unchanged, skipping revalidation")
			return
		}
		digests = current
		watchValidate(ctx, opts)
		passes.Add(1)
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Watch stopped"))
			summary := fmt.Sprintf("passes: %d\nelapsed: %s",
				passes.Load(), timeutil.FormatDuration(time.Since(started)))
			for _, line := range console.RenderInfoSection(summary) {
				fmt.Fprintln(os.Stderr, line)
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !stringutil.IsWorkflowFile(ev.Name) && !stringutil.IsConventionsFile(ev.Name) {
				continue
			}
			watchLog.Printf("Filesystem event: %s", ev)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(constants.DefaultWatchDebounce, revalidate)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("Watch error: %v", err)))
		}
	}
}

// watchValidate runs one validation pass and renders the report. Pass
// failures keep the watch alive; only rendering continues from here.
func watchValidate(ctx context.Context, opts *ValidateOptions) {
	suite, err := runValidation(ctx, opts, os.Stdout)
	if err != nil {
		PrintValidationError(err)
		return
	}
	watchLog.Printf("Validation pass complete: status=%s, documents=%d", suite.Status, suite.Totals.Documents)
}

// watchTree lays out the watched directories and files for the startup
// banner. A conventions file inside the watch directory appears once even
// though it is both a scan hit and the conventions target.
func watchTree(opts *ValidateOptions) console.TreeNode {
	root := console.TreeNode{Value: "Watching for workflow changes (Ctrl-C to stop)"}
	targets := watchTargets(opts)
	seen := make(map[string]bool, len(targets))
	for _, dir := range watchDirs(opts) {
		node := console.TreeNode{Value: dir}
		for _, target := range targets {
			if filepath.Dir(target) != dir || seen[target] {
				continue
			}
			seen[target] = true
			node.Children = append(node.Children, console.TreeNode{Value: filepath.Base(target)})
		}
		root.Children = append(root.Children, node)
	}
	return root
}

// watchProgress returns the per-document progress callback for watch
// passes: a bar on the stderr terminal, nil anywhere else so the engine
// skips progress accounting entirely.
func watchProgress() func(done, total int) {
	if !tty.IsStderrTerminal() || console.IsAccessibleMode() {
		return nil
	}

	var mu sync.Mutex
	var bar *console.ProgressBar
	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if bar == nil {
			bar = console.NewProgressBar(int64(total))
		}
		fmt.Fprintf(os.Stderr, "\r\x1b[K%s", bar.Update(int64(done)))
		if done >= total {
			// Clear the bar before the report prints; the next pass
			// starts a fresh one.
			fmt.Fprint(os.Stderr, "\r\x1b[K")
			bar = nil
		}
	}
}

// watchDirs lists the directories the watcher registers: the workflow
// directory or the parents of explicit files, plus the directory holding
// the conventions file.
func watchDirs(opts *ValidateOptions) []string {
	var dirs []string
	add := func(dir string) {
		if dir != "" && !sliceutil.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	if len(opts.Files) > 0 {
		for _, file := range opts.Files {
			add(filepath.Dir(file))
		}
	} else {
		add(opts.Dir)
	}

	if conv := conventionsPath(opts); conv != "" {
		add(filepath.Dir(conv))
	}
	return dirs
}

// watchTargets lists every file whose content participates in change
// detection: the workflow documents plus the conventions file.
func watchTargets(opts *ValidateOptions) []string {
	var paths []string

	if len(opts.Files) > 0 {
		paths = append(paths, opts.Files...)
	} else if entries, err := os.ReadDir(opts.Dir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !stringutil.IsWorkflowFile(entry.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(opts.Dir, entry.Name()))
		}
	}

	if conv := conventionsPath(opts); conv != "" {
		paths = append(paths, conv)
	}
	return paths
}

// conventionsPath resolves the conventions file watched for reloads.
func conventionsPath(opts *ValidateOptions) string {
	if opts.Conventions != "" {
		return opts.Conventions
	}
	return workflow.FindConventionsFile(opts.Dir)
}

// contentDigests fingerprints every watched file. Files that cannot be
// read are left out; validation reports them separately.
func contentDigests(paths []string) map[string][32]byte {
	digests := make(map[string][32]byte, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		digests[path] = blake2b.Sum256(data)
	}
	return digests
}

// digestsEqual reports whether two digest sets cover the same files with
// the same content.
func digestsEqual(a, b map[string][32]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for path, sum := range a {
		if b[path] != sum {
			return false
		}
	}
	return true
}
