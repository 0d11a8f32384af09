package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/chatops/internal/github"
)

func newReactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "react <content>",
		Short: "React to the triggering comment",
		Long: `React to the triggering comment. Valid contents are
+1, -1, laugh, confused, heart, hooray, rocket and eyes.

Runs triggered by workflow_dispatch have no comment; the reaction is skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !github.ValidReaction(args[0]) {
				return fmt.Errorf("invalid reaction %q", args[0])
			}
			ctx := cmd.Context()
			t, ctx, err := a.loadTrigger(ctx)
			if err != nil {
				return err
			}
			poster, err := a.newPoster(ctx)
			if err != nil {
				return err
			}
			return poster.AddReaction(ctx, t, args[0])
		},
	}
}
