// Package shared provides common utilities shared between mode controllers.
package shared

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard implements Clipboard using the system clipboard. Over SSH or
// inside a terminal multiplexer the OSC 52 escape sequence is written instead
// so the copy lands on the local machine.
type SystemClipboard struct {
	// Out receives OSC 52 sequences. Defaults to os.Stdout.
	Out io.Writer
	// ForceOSC52 skips the native clipboard commands.
	ForceOSC52 bool
}

// MockClipboard records copied text for tests.
type MockClipboard struct {
	Copied []string
	Err    error
}

// Copy records text unless Err is set.
func (m *MockClipboard) Copy(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Copied = append(m.Copied, text)
	return nil
}

// Copy copies text to the system clipboard.
func (c SystemClipboard) Copy(text string) error {
	if c.ForceOSC52 || shouldUseOSC52() {
		out := c.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := io.WriteString(out, osc52Sequence(text, os.Getenv("TMUX") != ""))
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		cmd = exec.Command("xclip", "-selection", "clipboard")
	}

	pipe, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	if _, err := pipe.Write([]byte(text)); err != nil {
		return err
	}
	if err := pipe.Close(); err != nil {
		return err
	}
	return cmd.Wait()
}

// shouldUseOSC52 reports whether the terminal is remote or multiplexed.
func shouldUseOSC52() bool {
	for _, env := range []string{"SSH_TTY", "SSH_CLIENT", "SSH_CONNECTION", "TMUX", "STY"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}

// osc52Sequence wraps text in the OSC 52 set-clipboard sequence, with tmux
// passthrough when requested.
func osc52Sequence(text string, tmux bool) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if tmux {
		return "\x1bPtmux;\x1b\x1b]52;c;" + encoded + "\x07\x1b\\"
	}
	return "\x1b]52;c;" + encoded + "\x07"
}
