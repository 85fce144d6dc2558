// Package scaffold materializes a catalog feature type into files on disk,
// substituting placeholder tokens in both file paths and file contents.
//
// Generation is sequential and overwrites existing files. Two engines writing
// into overlapping directories at the same time race; callers must serialize.
package scaffold

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/brattlof/featgen/internal/catalog"
)

const DefaultOutputDir = "./output"

type Engine struct {
	fs      afero.Fs
	logger  *slog.Logger
	onWrite func(path string)
}

type Option func(*Engine)

// WithFs sets the filesystem files are written to. Defaults to the OS.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) { e.fs = fs }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithProgress registers a callback invoked after each file is written.
func WithProgress(fn func(path string)) Option {
	return func(e *Engine) { e.onWrite = fn }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		fs:     afero.NewOsFs(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// File is a fully resolved template: Path already includes the output directory.
type File struct {
	Path    string
	Content []byte
}

// Report lists the files written by one Generate call, in catalog order.
type Report struct {
	Type      string
	Name      string
	OutputDir string
	Files     []string
}

func (r *Report) Count() int {
	return len(r.Files)
}

// Plan resolves every template of typeKey without touching the filesystem.
func (e *Engine) Plan(typeKey, name, ticketID, outputDir string) ([]File, error) {
	ft, err := catalog.Lookup(typeKey)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	root := filepath.Clean(outputDir)
	placeholders := NewPlaceholderMap(name, ticketID)

	files := make([]File, 0, len(ft.Files))
	for _, tmpl := range ft.Files {
		full := filepath.Join(root, placeholders.Apply(tmpl.Path))
		if !within(root, full) {
			return nil, &PathEscapeError{Path: full, Root: root}
		}
		files = append(files, File{
			Path:    full,
			Content: []byte(placeholders.Apply(tmpl.Content)),
		})
	}
	return files, nil
}

// Generate writes every file of typeKey under outputDir. Validation failures
// return before any filesystem access. On a write failure the returned report
// holds the files written so far alongside a *WriteError.
func (e *Engine) Generate(typeKey, name, ticketID, outputDir string) (*Report, error) {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	files, err := e.Plan(typeKey, name, ticketID, outputDir)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Type:      typeKey,
		Name:      name,
		OutputDir: outputDir,
		Files:     make([]string, 0, len(files)),
	}

	if err := e.fs.MkdirAll(outputDir, 0755); err != nil {
		return report, &WriteError{Op: "mkdir", Path: outputDir, Err: err}
	}

	for _, f := range files {
		if err := e.writeFile(f); err != nil {
			e.logger.Error("Generation aborted", "type", typeKey, "name", name,
				"written", len(report.Files), "error", err)
			return report, err
		}
		report.Files = append(report.Files, f.Path)
		if e.onWrite != nil {
			e.onWrite(f.Path)
		}
	}

	e.logger.Info("Generated feature", "type", typeKey, "name", name, "files", report.Count())
	return report, nil
}

func (e *Engine) writeFile(f File) error {
	dir := filepath.Dir(f.Path)
	if err := e.fs.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Op: "mkdir", Path: dir, Err: err}
	}
	if err := afero.WriteFile(e.fs, f.Path, f.Content, 0644); err != nil {
		return &WriteError{Op: "write", Path: f.Path, Err: err}
	}
	e.logger.Debug("Created file", "path", f.Path, "bytes", len(f.Content))
	return nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Describe renders a one-line summary of a report, used by the CLI and the
// HTTP server logs.
func Describe(r *Report) string {
	return fmt.Sprintf("Generated %d files for %s feature: %s", r.Count(), r.Type, r.Name)
}
