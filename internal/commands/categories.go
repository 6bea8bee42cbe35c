package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [income|expense]",
		Short: "List the categories available for each kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCategories(cmd.OutOrStdout(), categories.Default(), args)
		},
	}
}

func writeCategories(w io.Writer, vocab categories.Vocabulary, args []string) error {
	kinds := model.Kinds
	if len(args) > 0 {
		k, ok := model.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown kind %q: must be income or expense", args[0])
		}
		kinds = []model.Kind{k}
	}

	for _, k := range kinds {
		fmt.Fprintf(w, "%s:\n", k)
		for _, c := range vocab.For(k) {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	return nil
}
