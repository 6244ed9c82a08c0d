package cli

import "github.com/spf13/cobra"

// NewTagsCommand creates the tags command.
func NewTagsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tags expectations may use",
		Long: `List every tag registered for expectation documents, including
legacy aliases and the root tags !expect and !expect_list.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.renderer(cmd, rootOpts.runID()).Tags(rootOpts.registry().Tags())
		},
	}
}
