package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
)

var generateCmd = &cobra.Command{
	Use:   "generate [category]",
	Short: "Generate a business idea",
	Long: `Generate a business idea for a category and print it.

A random category is used when none is given. Run 'ideabot categories' to
list the available keys.

Examples:
  ideabot generate tech
  ideabot generate --raw > idea.md`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeCategory,
	RunE:              runGenerate,

	Annotations: map[string]string{annotationNeedsLLM: "true"},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List business categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	generateCmd.Flags().Bool("raw", false, "print the idea text without styling")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return fmt.Errorf("getting raw flag: %w", err)
	}

	req := driving.IdeaRequest{}
	if len(args) == 1 {
		req.CategoryKey = args[0]
	} else {
		req.CategoryKey = ideaService.RandomCategory().Key
		req.Random = true
	}

	idea, err := ideaService.Generate(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			return fmt.Errorf("unknown category %q, run 'ideabot categories' to list keys", req.CategoryKey)
		}
		return fmt.Errorf("failed to generate idea: %w", err)
	}

	out := cmd.OutOrStdout()
	if raw {
		fmt.Fprintln(out, idea.Text)
		return nil
	}

	fmt.Fprintln(out, titleStyle.Render(idea.CategoryLabel))
	fmt.Fprintln(out)
	fmt.Fprintln(out, idea.Text)
	fmt.Fprintln(out)
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%s · %s", idea.Model, idea.ID)))
	return nil
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	categories := ideaService.Categories()
	width := 0
	for _, c := range categories {
		width = max(width, len(c.Key))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Business categories"))
	for _, c := range categories {
		fmt.Fprintf(out, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-*s", width, c.Key)), c.Label)
	}
	return nil
}

func completeCategory(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	categories := domain.Categories()
	keys := make([]string, 0, len(categories))
	for _, c := range categories {
		keys = append(keys, c.Key+"\t"+c.Label)
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}
