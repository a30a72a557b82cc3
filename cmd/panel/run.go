package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var models []string

	cmd := &cobra.Command{
		Use:   "run [query]",
		Short: "Run a query and record it in the session history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			// A name given twice stays selected.
			for _, m := range models {
				if m = strings.TrimSpace(m); m != "" && !a.svc.Toggle(m) {
					a.svc.Toggle(m)
				}
			}

			result, err := a.svc.Submit(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringSliceVarP(&models, "models", "m", nil, "participants to select (default: all)")
	return cmd
}
