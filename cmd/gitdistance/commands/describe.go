package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kurobon/gitdistance/internal/git"
)

const (
	describeCmdUse   = "describe [rev]"
	describeCmdShort = "Print the nearest tag and its distance"
	describeCmdLong  = `Find the tag closest to rev (default HEAD) using the configured walk
strategy and print "<tag> <distance>". --match restricts the candidate tags
with a glob such as "v*". Exits with an error when no tag is reachable.`
)

// NewDescribeCommand creates the describe subcommand.
func NewDescribeCommand(global *GlobalOptions) *cobra.Command {
	var (
		match string
		long  bool
	)

	cmd := &cobra.Command{
		Use:   describeCmdUse,
		Short: describeCmdShort,
		Long:  describeCmdLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rev := ""
			if len(args) == 1 {
				rev = args[0]
			}

			e, err := global.load(cmd)
			if err != nil {
				return err
			}

			desc, err := e.repo.Describe(rev, match, e.cfg.Distance.MaxDepth, e.walkOptions()...)
			if errors.Is(err, git.ErrNoTag) {
				return fmt.Errorf("%w (try a larger --max-depth or a wider --match)", err)
			}
			if err != nil {
				return err
			}

			if long {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s\n", desc.Tag, desc.Distance, desc.Commit.String())
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), desc.String())
			return err
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "only consider tags matching this glob")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "also print the tagged commit")
	addWalkFlags(cmd.Flags())

	return cmd
}
