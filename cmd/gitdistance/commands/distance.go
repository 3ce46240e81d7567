package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	distanceCmdUse   = "distance <target>"
	distanceCmdShort = "Count commits between a revision and one of its ancestors"
	distanceCmdLong  = `Walk the history from --from (default HEAD) looking for <target> and print
the number of edges traversed, or "unreachable" when the walk ends without
finding it. Both revisions accept anything git rev-parse would: branches,
tags, abbreviated hashes.`
	unreachable = "unreachable"
)

// NewDistanceCommand creates the distance subcommand.
func NewDistanceCommand(global *GlobalOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   distanceCmdUse,
		Short: distanceCmdShort,
		Long:  distanceCmdLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := global.load(cmd)
			if err != nil {
				return err
			}

			dist, found, err := e.repo.Distance(from, args[0], e.cfg.Distance.MaxDepth, e.walkOptions()...)
			if err != nil {
				return err
			}
			if !found {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), unreachable)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dist)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "HEAD", "revision to start walking from")
	addWalkFlags(cmd.Flags())

	return cmd
}
