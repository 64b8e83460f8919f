package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/internal/unpkg"
)

func unpkgCmd() *cobra.Command {
	var rv unpkg.Resolver
	cmd := &cobra.Command{
		Use:   `unpkg <path>...`,
		Short: `Print script or link tags with integrity for unpkg.com packages`,
		Long: `Query unpkg.com for each path, following redirects to the fully versioned URL, and print a script or
link tag with subresource integrity and a disabled referrer policy.

  emitd unpkg alpinejs
  emitd unpkg alpinejs@3.12.0
  emitd unpkg alpinejs@latest/dist/cdn.min.js`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				asset, err := rv.Resolve(cmd.Context(), path)
				if err == nil {
					var html string
					html, err = emit.String(asset)
					if err == nil {
						fmt.Fprintln(cmd.OutOrStdout(), html)
						continue
					}
				}
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "!! %v for %q\n", err, path)
			}
			if failed > 0 {
				return fmt.Errorf(`%v of %v paths could not be resolved`, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&rv.Defer, `defer`, false, `use the defer attribute for script tags`)
	return cmd
}
