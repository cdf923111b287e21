package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/settings"
)

const ScriptName = "lint.py"

// Checker produces findings for a file on disk.
type Checker interface {
	Check(ctx context.Context, path string) ([]analyzer.Finding, error)
}

// Internal runs the flake8 executable directly.
type Internal struct {
	Command string
	Timeout time.Duration
}

func (c *Internal) Check(ctx context.Context, path string) ([]analyzer.Finding, error) {
	out, err := run(ctx, c.Timeout, c.Command, "--format="+textFormat, path)
	if err != nil {
		return nil, err
	}
	return ParseText(out)
}

// External runs the locator-resolved lint script under a Python interpreter
// and decodes its JSON output.
type External struct {
	Interpreter string
	Script      string
	Timeout     time.Duration
}

func (c *External) Check(ctx context.Context, path string) ([]analyzer.Finding, error) {
	out, err := run(ctx, c.Timeout, c.Interpreter, c.Script, path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(out)
}

// Locator finds the lint script. The plugin directory is checked first,
// then the Flake8Lint folder of the packages path.
type Locator struct {
	PluginDir    string
	PackagesPath string
}

// NewLocator fills unset directories from the executable location and the
// user config directory.
func NewLocator(s settings.Settings) Locator {
	loc := Locator{PluginDir: s.PluginDir, PackagesPath: s.PackagesPath}
	if loc.PluginDir == "" {
		if exe, err := os.Executable(); err == nil {
			loc.PluginDir = filepath.Dir(exe)
		}
	}
	if loc.PackagesPath == "" {
		if base, err := os.UserConfigDir(); err == nil {
			loc.PackagesPath = filepath.Join(base, "flake8lint", "packages")
		}
	}
	return loc
}

func (l Locator) Candidates() []string {
	var paths []string
	if l.PluginDir != "" {
		paths = append(paths, filepath.Join(l.PluginDir, ScriptName))
	}
	if l.PackagesPath != "" {
		paths = append(paths, filepath.Join(l.PackagesPath, "Flake8Lint", ScriptName))
	}
	return paths
}

func (l Locator) Find() (string, error) {
	for _, p := range l.Candidates() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrScriptNotFound
}

// Resolve picks the checker mode from python_interpreter: empty or
// "internal" runs flake8 directly, "auto" uses the default interpreter and
// anything else must be an existing interpreter path.
func Resolve(s settings.Settings, loc Locator) (Checker, error) {
	interpreter := s.PythonInterpreter

	switch interpreter {
	case "", settings.InterpreterInternal:
		command := s.Flake8Command
		if command == "" {
			command = settings.DefaultCommand
		}
		return &Internal{Command: command, Timeout: s.Timeout}, nil
	case settings.InterpreterAuto:
		interpreter = settings.DefaultInterpreter
	default:
		if _, err := os.Stat(interpreter); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInterpreterNotFound, interpreter)
		}
	}

	script, err := loc.Find()
	if err != nil {
		return nil, err
	}

	return &External{Interpreter: interpreter, Script: script, Timeout: s.Timeout}, nil
}

func run(ctx context.Context, timeout time.Duration, command string, args ...string) ([]byte, error) {
	if timeout <= 0 {
		timeout = settings.DefaultTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, command, args...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, &Error{Command: command, Err: ErrCheckerTimeout, Output: stderr.String()}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// flake8 exits non-zero whenever it reports something, so only an
	// empty stdout counts as a failure.
	if err != nil && stdout.Len() == 0 {
		return nil, &Error{Command: command, Err: fmt.Errorf("%w: %v", ErrCheckerFailed, err), Output: stderr.String()}
	}

	slog.Debug("Checker finished",
		slog.String("command", command),
		slog.Duration("duration", time.Since(start)),
		slog.Int("bytes", stdout.Len()),
	)

	return stdout.Bytes(), nil
}
