package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned when the user saves an empty file.
var ErrEmpty = errors.New("editor: empty file, nothing saved")

// Draft is the part of an event edited as text: the title in a YAML front
// matter block, followed by the markdown notes.
type Draft struct {
	Title string
	Notes string
}

type draftHeader struct {
	Title *string `yaml:"title"`
}

// ResolveEditor picks the editor command: the configured one, then $VISUAL,
// then $EDITOR, then vi.
func ResolveEditor(configured string) string {
	for _, ed := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if ed != "" {
			return ed
		}
	}
	return "vi"
}

// Edit writes d to a temporary file, opens it with editorCmd and parses the
// saved file. Removing the front matter keeps the original title.
func Edit(editorCmd string, d Draft) (Draft, error) {
	f, err := os.CreateTemp("", "agendactl-*.md")
	if err != nil {
		return Draft{}, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	head, err := yaml.Marshal(draftHeader{Title: &d.Title})
	if err != nil {
		f.Close()
		return Draft{}, err
	}
	_, err = fmt.Fprintf(f, "---\n%s---\n\n%s\n", head, d.Notes)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Draft{}, fmt.Errorf("writing temp file: %w", err)
	}

	if err := run(editorCmd, path); err != nil {
		return Draft{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, fmt.Errorf("reading edited file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Draft{}, ErrEmpty
	}

	var h draftHeader
	body, err := frontmatter.Parse(bytes.NewReader(data), &h)
	if err != nil {
		return Draft{}, fmt.Errorf("parsing edited file: %w", err)
	}
	out := Draft{Title: d.Title, Notes: strings.TrimSpace(string(body))}
	if h.Title != nil {
		out.Title = strings.TrimSpace(*h.Title)
	}
	return out, nil
}

// run starts the editor on path attached to the terminal. editorCmd may
// carry arguments, as in "code --wait".
func run(editorCmd, path string) error {
	args := strings.Fields(editorCmd)
	if len(args) == 0 {
		return errors.New("no editor configured")
	}
	c := exec.Command(args[0], append(args[1:], path)...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("running %s: %w", args[0], err)
	}
	return nil
}
