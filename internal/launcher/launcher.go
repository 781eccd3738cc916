// Package launcher is the bootstrap shim that starts the patchbay binary
// from its own installation directory. It resolves its own location so the
// invocation works from any working directory, puts that directory at the
// front of the child's search path, and hands the console to the child.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vk/patchbaygo/internal/ctxlog"
)

// EntryPoint is the sibling binary the launcher starts.
const EntryPoint = "patchbay"

// Options configures one launch.
type Options struct {
	// PrependDir is an extra directory placed at the very front of the
	// child's PATH, ahead of the launcher's own directory. A deployment
	// accommodation, empty by default.
	PrependDir string

	// Hold keeps the console open after the child exits, waiting for one
	// line on HoldInput, so diagnostic output stays readable.
	Hold      bool
	HoldInput io.Reader

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// SelfDir returns the directory holding the running executable, with
// symlinks resolved, so the launcher behaves the same no matter where it was
// invoked from.
func SelfDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate own executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Dir(resolved), nil
}

// entryPointName returns the platform-specific binary name.
func entryPointName() string {
	if runtime.GOOS == "windows" {
		return EntryPoint + ".exe"
	}
	return EntryPoint
}

// Run starts the entry point that sits next to dir and blocks until it
// exits. The child receives no arguments, inherits the console, and runs
// with dir as its working directory. The launcher directory always leads the
// child's PATH so the entry binary and its sibling tools win name
// resolution. The return value is the child's exit code; failures to start
// at all surface as an error.
func Run(ctx context.Context, dir string, opts Options) (int, error) {
	logger := ctxlog.FromContext(ctx)

	target := filepath.Join(dir, entryPointName())
	logger.Debug("Launching entry point.", "target", target, "dir", dir)

	cmd := exec.CommandContext(ctx, target)
	cmd.Dir = dir
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	cmd.Stdin = opts.Stdin
	cmd.Env = childEnv(dir, opts.PrependDir)

	err := cmd.Run()
	code := exitCode(err)

	if opts.Hold {
		pause(opts.Stdout, opts.HoldInput)
	}

	if err != nil && code < 0 {
		return 1, fmt.Errorf("failed to start %s: %w", target, err)
	}
	return code, nil
}

// childEnv builds the child environment: the parent environment with its
// PATH entry replaced by one that leads with the launcher directory,
// preceded by the optional prepend directory. Only a single PATH entry ends
// up in the result.
func childEnv(dir, prepend string) []string {
	path := dir
	if prepend != "" {
		path = prepend + string(os.PathListSeparator) + path
	}
	if old := os.Getenv("PATH"); old != "" {
		path += string(os.PathListSeparator) + old
	}

	parent := os.Environ()
	env := make([]string, 0, len(parent)+1)
	for _, kv := range parent {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.EqualFold(key, "PATH") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "PATH="+path)
}

// exitCode maps a cmd.Run error to the child's exit status. A nil error is
// exit 0; an error without an exit status (start failure) maps to -1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// pause blocks until one line arrives, keeping the console open.
func pause(out io.Writer, in io.Reader) {
	if in == nil {
		return
	}
	if out != nil {
		fmt.Fprint(out, "Press Enter to close...")
	}
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err != nil {
			return
		}
		if n > 0 && buf[0] == '\n' {
			return
		}
	}
}
