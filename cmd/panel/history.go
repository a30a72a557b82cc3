package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			for _, s := range a.svc.Sessions() {
				fmt.Fprintf(out, "%s  %s  [%s]  %s\n",
					s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"),
					strings.Join(s.SelectedParticipantIDs, ", "), s.Query)
			}
			return nil
		},
	}
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [session-id]",
		Short: "Show a recorded session as the current run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.svc.Restore(args[0]) {
				return fmt.Errorf("session %s not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), a.svc.State())
		},
	}
}

func newFeedbackCmd(opts *rootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "feedback [participant] [text]",
		Short: "Send feedback on a participant or list sent feedback",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if list {
				return printJSON(cmd.OutOrStdout(), a.svc.Feedback())
			}

			entry, err := a.svc.SubmitFeedback(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if entry == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "empty feedback ignored")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list sent feedback instead of sending")
	return cmd
}
