package editor

import (
	"os"
	"os/exec"
	"strings"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	configured string
}

// NewEditor creates a new Editor. configured is the editor key from the
// config file and may be empty.
func NewEditor(configured string) *Editor {
	return &Editor{configured: configured}
}

// Resolve returns the editor command to use.
// Order: config > $VISUAL > $EDITOR > vim
func (e *Editor) Resolve() string {
	if e.configured != "" {
		return e.configured
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vim"
}

// Edit opens the editor with the given content and returns the edited
// content without its trailing newlines.
func (e *Editor) Edit(content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "lanes-edit-*.md")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// The command may carry flags, e.g. "code --wait".
	parts := strings.Fields(e.Resolve())
	cmd := exec.Command(parts[0], append(parts[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(edited), "\n"), nil
}
