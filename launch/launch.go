// Package launch starts applications from menu activations. Launches are
// fire-and-forget: the child runs in its own session, its output is
// discarded, and the launcher never waits for it.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"
)

// Validation errors.
var (
	// ErrEmptyCommand is returned for empty or whitespace-only commands.
	ErrEmptyCommand = errors.New("launch: empty command")

	// ErrUnsafeCommand is returned for commands matching the denylist.
	ErrUnsafeCommand = errors.New("launch: command failed validation")
)

// deniedPatterns are substrings that disqualify a command outright. The
// config file is user-editable, so this is a guard rail against obvious
// foot-guns, not a sandbox.
var deniedPatterns = []string{
	"rm -rf",
	":(){:|:&};",
}

// Launcher starts applications.
type Launcher struct{}

// New returns a new [Launcher].
func New() *Launcher {
	return &Launcher{}
}

// Validate reports whether a command may be launched.
func (l *Launcher) Validate(command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrEmptyCommand
	}

	lowered := strings.ToLower(command)
	for _, pattern := range deniedPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("%w: %s", ErrUnsafeCommand, command)
		}
	}

	return nil
}

// Launch validates and starts a command. The command is split with shell
// quoting rules, started detached in a new session, and reaped in the
// background when it exits.
func (l *Launcher) Launch(command string) error {
	if err := l.Validate(command); err != nil {
		logrus.WithError(err).WithField("cmd", command).Error("refusing to launch")
		return err
	}

	args, err := shellquote.Split(command)
	if err != nil {
		return fmt.Errorf("launch: split %q: %w", command, err)
	}

	if len(args) == 0 {
		return ErrEmptyCommand
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	// New session, so the child survives the launcher and never blocks its
	// controlling terminal.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		logrus.WithError(err).WithField("cmd", command).Error("failed to launch application")
		return fmt.Errorf("launch: %q: %w", command, err)
	}

	logrus.WithField("cmd", command).Info("launched application")

	// The launcher never blocks on the child, but it must still collect the
	// exit status, or every launched application lingers as a zombie.
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
