package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/internal/config"
	"github.com/swdunlop/emit-go/internal/showcase"
)

func renderCmd(load func() (config.Config, error)) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   `render [selector...]`,
		Short: `Render JSON from stdin as an HTML document`,
		Long: `Given a JSON document on stdin and an optional list of GJSON selectors, write an HTML document that
renders the selected values as a series of dataviews.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log := setupLogger(cfg, cmd.ErrOrStderr())
			js, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), emit.New(emit.Logger(log)), title, js, args...)
		},
	}
	cmd.Flags().StringVar(&title, `title`, `data`, `title of the document`)
	return cmd
}

func renderJSON(w io.Writer, renderer *emit.Renderer, title string, js []byte, selectors ...string) error {
	if !gjson.ValidBytes(js) {
		return errors.New(`stdin is not a valid JSON document`)
	}
	buf := emit.NewBuffer(1024 * 1024)
	page := showcase.DataPage(showcase.Layout{Title: title}, gjson.ParseBytes(js), selectors...)
	if err := renderer.Render(buf, nil, page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

