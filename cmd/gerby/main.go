package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/gerby-reader/internal/cmd"
	"github.com/gravitrone/gerby-reader/internal/typeset"
	"github.com/gravitrone/gerby-reader/internal/ui"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRoot() *cobra.Command {
	g := &cmd.Globals{}
	root := &cobra.Command{
		Use:   "gerby [url]",
		Short: "Gerby - tag and chapter reader",
		Long:  "Gerby reader: open tags and chapters from a Gerby API in the terminal, render them to HTML, or serve them over HTTP.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rawURL := ""
			if len(args) == 1 {
				rawURL = args[0]
			}
			return runTUI(g, rawURL)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.Bind(root)

	root.AddCommand(cmd.RenderCmd(g))
	root.AddCommand(cmd.ServeCmd(g))
	root.AddCommand(cmd.BrowseCmd(g))
	root.AddCommand(cmd.SearchCmd(g))
	root.AddCommand(cmd.IndexCmd(g))
	root.AddCommand(cmd.ConfigCmd(g))
	return root
}

var interactive = func() bool {
	return isInteractiveTerminal(os.Stdin) && isInteractiveTerminal(os.Stdout)
}

func runTUI(g *cmd.Globals, rawURL string) error {
	if !interactive() {
		return fmt.Errorf("the viewer needs a terminal; use 'gerby render' for scripts")
	}

	cfg, err := g.Config()
	if err != nil {
		return err
	}
	logger, err := g.TUILogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	page := ui.NewPageModel(g.Client(cfg), typeset.Logged{Logger: logger}, rawURL,
		ui.WithLogger(logger),
		ui.WithOrigin(cfg.APIURL),
	)

	p := tea.NewProgram(page, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
