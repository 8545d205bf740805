package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Config configures the builtin tools.
type Config struct {
	// WorkingDir is the working directory for commands and the root
	// for relative file paths.
	WorkingDir string

	// Timeout bounds one command execution.
	Timeout time.Duration

	// Shell is the shell used for bash commands (default: /bin/sh).
	Shell string

	// BlockedCommands lists base commands that are refused.
	BlockedCommands []string

	// BlockedPatterns are regex patterns that block command execution.
	BlockedPatterns []string

	compiledPatterns []*regexp.Regexp
}

// Option configures the builtin tools.
type Option func(*Config)

// WithWorkingDir sets the working directory.
func WithWorkingDir(dir string) Option {
	return func(c *Config) {
		c.WorkingDir = dir
	}
}

// WithTimeout sets the command timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithShell sets the shell to use.
func WithShell(shell string) Option {
	return func(c *Config) {
		c.Shell = shell
	}
}

// WithBlockedCommands sets the list of blocked base commands.
func WithBlockedCommands(commands ...string) Option {
	return func(c *Config) {
		c.BlockedCommands = commands
	}
}

// WithBlockedPatterns sets regex patterns that block command execution.
func WithBlockedPatterns(patterns ...string) Option {
	return func(c *Config) {
		c.BlockedPatterns = patterns
	}
}

// DefaultBlockedCommands returns a sensible list of blocked commands.
func DefaultBlockedCommands() []string {
	return []string{
		"shutdown", "reboot", "halt", "poweroff", "init",
		"mkfs", "fdisk", "parted", "dd",
		"su", "sudo", "doas",
		"passwd", "useradd", "userdel",
		"mount", "umount",
		"iptables", "ip6tables", "nft", "ufw",
		"systemctl", "service",
	}
}

// DefaultBlockedPatterns returns sensible blocked patterns.
func DefaultBlockedPatterns() []string {
	return []string{
		`>\s*/dev/`,
		`>\s*/etc/`,
		`rm\s+(-\w+\s+)*/(\s|$)`,
		`curl.*\|\s*(sh|bash)`,
		`wget.*\|\s*(sh|bash)`,
	}
}

// NewBuiltinExecutor creates an executor with the bash, read_file,
// write_file, and list_dir tools.
func NewBuiltinExecutor(opts ...Option) (*Executor, error) {
	cfg := Config{
		Timeout:         30 * time.Second,
		Shell:           "/bin/sh",
		BlockedCommands: DefaultBlockedCommands(),
		BlockedPatterns: DefaultBlockedPatterns(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	for _, pattern := range cfg.BlockedPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked pattern %q: %w", pattern, err)
		}
		cfg.compiledPatterns = append(cfg.compiledPatterns, re)
	}

	if cfg.WorkingDir != "" {
		info, err := os.Stat(cfg.WorkingDir)
		if err != nil {
			return nil, fmt.Errorf("invalid working directory: %w", err)
		}
		if !info.IsDir() {
			return nil, errors.New("working directory is not a directory")
		}
	}

	return NewExecutor(
		ToolDef{
			Name:        "bash",
			Description: "run a shell command; arguments are the command line",
			Handler:     bashTool(&cfg),
		},
		ToolDef{
			Name:        "read_file",
			Description: "read a file; arguments are the path",
			Handler:     readFileTool(&cfg),
		},
		ToolDef{
			Name:        "write_file",
			Description: "write a file; arguments are the path followed by the content",
			Handler:     writeFileTool(&cfg),
		},
		ToolDef{
			Name:        "list_dir",
			Description: "list a directory; arguments are the path (default .)",
			Handler:     listDirTool(&cfg),
		},
	), nil
}

func checkCommand(cfg *Config, command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	for _, blocked := range cfg.BlockedCommands {
		if parts[0] == blocked {
			return fmt.Errorf("command %q is blocked", parts[0])
		}
	}

	for _, pattern := range cfg.compiledPatterns {
		if pattern.MatchString(command) {
			return errors.New("command matches blocked pattern")
		}
	}

	return nil
}

// resolve anchors a relative path at the working directory.
func resolve(cfg *Config, path string) string {
	if path == "" || filepath.IsAbs(path) || cfg.WorkingDir == "" {
		return path
	}
	return filepath.Join(cfg.WorkingDir, path)
}

func bashTool(cfg *Config) Handler {
	return func(ctx context.Context, args string) (string, error) {
		command := strings.TrimSpace(args)
		if err := checkCommand(cfg, command); err != nil {
			return "", err
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, cfg.Shell, "-c", command) // #nosec G204 -- command validated above
		if cfg.WorkingDir != "" {
			cmd.Dir = cfg.WorkingDir
		}

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()

		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("command timed out after %s", cfg.Timeout)
		}

		// A non-zero exit is part of the observation, not a tool fault.
		exitCode := 0
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		}
		if err != nil {
			return "", err
		}

		out := stdout.String()
		if stderr.Len() > 0 {
			out += stderr.String()
		}
		if exitCode != 0 {
			out += fmt.Sprintf("\n[exit code %d]", exitCode)
		}
		if out == "" {
			out = "[no output]"
		}
		return out, nil
	}
}

func readFileTool(cfg *Config) Handler {
	return func(_ context.Context, args string) (string, error) {
		path := strings.TrimSpace(args)
		if path == "" {
			return "", errors.New("read_file requires a path")
		}

		content, err := os.ReadFile(resolve(cfg, path))
		if err != nil {
			return "", err
		}
		return string(content), nil
	}
}

func writeFileTool(cfg *Config) Handler {
	return func(_ context.Context, args string) (string, error) {
		// First token is the path, the rest is the content.
		args = strings.TrimLeft(args, " \t")
		i := strings.IndexAny(args, " \t\n")
		if i < 0 {
			return "", errors.New("write_file requires a path and content")
		}
		path := args[:i]
		content := strings.TrimPrefix(args[i:], " ")
		content = strings.TrimPrefix(content, "\n")

		target := resolve(cfg, path)
		if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil { // #nosec G301 -- intentionally restrictive
			return "", err
		}
		if err := os.WriteFile(target, []byte(content), 0600); err != nil { // #nosec G306 -- intentionally restrictive
			return "", err
		}

		return fmt.Sprintf("wrote %d bytes to %s", len(content), path), nil
	}
}

func listDirTool(cfg *Config) Handler {
	return func(_ context.Context, args string) (string, error) {
		path := strings.TrimSpace(args)
		if path == "" {
			path = "."
		}

		entries, err := os.ReadDir(resolve(cfg, path))
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "[empty directory]", nil
		}

		var b strings.Builder
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() {
				name += "/"
			}
			b.WriteString(name)
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}
}
