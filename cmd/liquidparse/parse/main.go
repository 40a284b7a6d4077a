package parse

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/liquidparse/pkg/document"
	"github.com/walteh/liquidparse/pkg/parser"
	"github.com/walteh/liquidparse/pkg/spec"
)

type Handler struct {
	specPath   string
	context    bool
	whitespace bool
	newlines   bool
	fs         afero.Fs
}

func NewParseCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "print the parsed document of a template as json",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&me.specPath, "spec", "", "dictionary file (.yaml, .yml or .hcl); the standard dictionary when empty")
	cmd.Flags().BoolVar(&me.context, "context", false, "include every scanned token in the output")
	cmd.Flags().BoolVar(&me.whitespace, "whitespace", false, "emit whitespace tokens")
	cmd.Flags().BoolVar(&me.newlines, "newlines", false, "emit newline tokens")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

type output struct {
	URI         string         `json:"uri"`
	Engine      string         `json:"engine"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	*parser.Result
}

func (me *Handler) Run(ctx context.Context, out io.Writer, path string) error {
	adapter, err := spec.LoadOrStandard(me.fs, me.specPath)
	if err != nil {
		return err
	}

	docs := document.NewManager(adapter,
		document.WithFs(me.fs),
		document.WithReparser(document.FullReparse{Options: parser.Options{
			TrackContext:      me.context,
			CaptureWhitespace: me.whitespace,
			CaptureNewlines:   me.newlines,
		}}),
	)

	doc, err := docs.Load(ctx, path)
	if err != nil {
		return err
	}

	for _, ierr := range doc.Result().Internal {
		zerolog.Ctx(ctx).Warn().Err(ierr).Str("file", path).Msg("internal parser error")
	}

	fm, err := doc.Frontmatter()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("frontmatter could not be decoded")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{URI: doc.URI, Engine: doc.Engine, Frontmatter: fm, Result: doc.Result()}); err != nil {
		return errors.Errorf("encoding output: %w", err)
	}
	return nil
}
