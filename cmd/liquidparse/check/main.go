package check

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/liquidparse/pkg/document"
	"github.com/walteh/liquidparse/pkg/parser"
	"github.com/walteh/liquidparse/pkg/spec"
)

var (
	ErrDiagnostics   = errors.Base("templates have errors")
	ErrNoMatches     = errors.Base("pattern matched no files")
	ErrUnknownFormat = errors.Base("unknown output format")
)

type Handler struct {
	specPath   string
	format     string // text, json, lsp
	whitespace bool
	newlines   bool
	noColor    bool
	fs         afero.Fs
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "check [glob...]",
		Short: "report diagnostics for every template matching the globs",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.specPath, "spec", "", "dictionary file (.yaml, .yml or .hcl); the standard dictionary when empty")
	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text, json or lsp")
	cmd.Flags().BoolVar(&me.whitespace, "whitespace", false, "emit whitespace tokens")
	cmd.Flags().BoolVar(&me.newlines, "newlines", false, "emit newline tokens")
	cmd.Flags().BoolVar(&me.noColor, "no-color", false, "disable colored output")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

// Run checks every file matched by patterns. Files that cannot be read are
// reported together after the rest have been checked.
func (me *Handler) Run(ctx context.Context, out io.Writer, patterns []string) error {
	rend, err := me.renderer(out)
	if err != nil {
		return err
	}

	adapter, err := spec.LoadOrStandard(me.fs, me.specPath)
	if err != nil {
		return err
	}

	docs := document.NewManager(adapter,
		document.WithFs(me.fs),
		document.WithReparser(document.FullReparse{Options: parser.Options{
			CaptureWhitespace: me.whitespace,
			CaptureNewlines:   me.newlines,
		}}),
	)

	files, errs := me.expand(patterns)

	failed := false
	for _, file := range files {
		doc, err := docs.Load(ctx, file)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, ierr := range doc.Result().Internal {
			zerolog.Ctx(ctx).Warn().Err(ierr).Str("file", file).Msg("internal parser error")
		}
		if doc.Diagnostics().HasErrors() {
			failed = true
		}
		rend.add(doc)
	}

	if err := rend.flush(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if failed {
		errs = multierr.Append(errs, errors.WithStack(ErrDiagnostics))
	}
	return errs
}

// expand resolves each pattern against its literal base directory so that
// absolute patterns work on any afero filesystem.
func (me *Handler) expand(patterns []string) ([]string, error) {
	var errs error
	seen := map[string]bool{}
	var files []string

	for _, pattern := range patterns {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		fsys := me.fs
		if base != "." {
			fsys = afero.NewBasePathFs(me.fs, base)
		}

		matches, err := doublestar.Glob(afero.NewIOFS(fsys), rest, doublestar.WithFilesOnly())
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("%s: %w", pattern, err))
			continue
		}
		if len(matches) == 0 {
			errs = multierr.Append(errs, errors.Errorf("%s: %w", pattern, ErrNoMatches))
			continue
		}
		for _, m := range matches {
			if base != "." {
				m = path.Join(base, m)
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, errs
}
