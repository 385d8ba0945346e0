package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/gerby-reader/internal/reader"
	"github.com/gravitrone/gerby-reader/internal/render"
	"github.com/gravitrone/gerby-reader/internal/typeset"
)

// RenderCmd returns the `gerby render` command.
func RenderCmd(g *Globals) *cobra.Command {
	var (
		out      string
		fragment bool
	)
	cmd := &cobra.Command{
		Use:   "render [url]",
		Short: "Render one location to HTML",
		Long: "Resolve the location, fetch its content once and write the page. " +
			"On a failed fetch the placeholder is still written and the command fails.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			rawURL := ""
			if len(args) == 1 {
				rawURL = args[0]
			}

			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			renderer, err := render.New(cfg.RendererOptions()...)
			if err != nil {
				return err
			}
			queue := typeset.NewQueue()
			rd, err := reader.New(g.Client(cfg), queue,
				reader.WithRenderer(renderer),
				reader.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			fetchErr := rd.Mount(c.Context(), rawURL)

			w := c.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := writePage(w, rd, queue, cfg.MathJaxURL, fragment); err != nil {
				return err
			}

			if fetchErr != nil {
				return fmt.Errorf("fetch %s: %w", rd.State().Path, fetchErr)
			}
			logger.Debug("rendered", zap.String("path", rd.State().Path), zap.String("kind", string(rd.State().Content.Kind())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "write only the content markup, without the page shell")
	return cmd
}

func writePage(w io.Writer, rd *reader.Reader, queue *typeset.Queue, mathJaxURL string, fragment bool) error {
	body, err := rd.Render()
	if err != nil {
		return err
	}
	if fragment {
		_, err := io.WriteString(w, string(body)+"\n")
		return err
	}
	return rd.Renderer().WriteDocument(w, render.Document{
		Title:      render.Title(rd.State().Content),
		Body:       body,
		MathJaxURL: mathJaxURL,
		Script:     queue.Script(),
	})
}
