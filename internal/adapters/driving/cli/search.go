package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool

	criteriaName     string
	criteriaCategory string
	criteriaTags     []string
	criteriaParam    string
	criteriaValue    string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the family catalogue",
	Long: `Searches the families held by a worker. Three kinds of search are
available: free text over family names, tag intersection, and combined
criteria over name, category, tags and parameters.`,
}

var searchNaturalCmd = &cobra.Command{
	Use:   "natural [query]",
	Short: "Search family names by free text",
	Long: `Matches families whose name contains the query, ignoring case.
A blank query returns no families.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchNatural,
}

var searchTagsCmd = &cobra.Command{
	Use:   "tags [tag...]",
	Short: "Search families sharing any of the given tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchTags,
}

var searchCriteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Search families by combined criteria",
	Long: `Every criterion that is set must hold. --tag may be repeated and matches
families sharing any of the tags. --param requires a parameter with that name.
--value requires some parameter whose default value, as text, equals it.
The two are separate filters.`,
	Args: cobra.NoArgs,
	RunE: runSearchCriteria,
}

func init() {
	searchCmd.PersistentFlags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default search.max_results)")
	searchCmd.PersistentFlags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.PersistentFlags().StringVar(&hostLibrary, "library", "", "glob of seed files the worker imports (default worker.library)")

	searchCriteriaCmd.Flags().StringVar(&criteriaName, "name", "", "name keyword")
	searchCriteriaCmd.Flags().StringVar(&criteriaCategory, "category", "", "exact category")
	searchCriteriaCmd.Flags().StringSliceVar(&criteriaTags, "tag", nil, "tag (repeatable)")
	searchCriteriaCmd.Flags().StringVar(&criteriaParam, "param", "", "required parameter name")
	searchCriteriaCmd.Flags().StringVar(&criteriaValue, "value", "", "required parameter default value")

	searchCmd.AddCommand(searchNaturalCmd, searchTagsCmd, searchCriteriaCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearchNatural(cmd *cobra.Command, args []string) error {
	return runSearch(cmd, func(ctx context.Context, s session) ([]domain.FamilyMetadata, error) {
		return s.SearchByNaturalLanguage(ctx, args[0], searchLimit)
	})
}

func runSearchTags(cmd *cobra.Command, args []string) error {
	return runSearch(cmd, func(ctx context.Context, s session) ([]domain.FamilyMetadata, error) {
		return s.SearchByTags(ctx, args, searchLimit)
	})
}

func runSearchCriteria(cmd *cobra.Command, _ []string) error {
	criteria := domain.SearchCriteria{
		NameKeyword:    criteriaName,
		Category:       criteriaCategory,
		Tags:           criteriaTags,
		ParameterName:  criteriaParam,
		ParameterValue: criteriaValue,
	}
	if criteria.IsEmpty() {
		return fmt.Errorf("%w: at least one criterion is required", domain.ErrInvalidInput)
	}
	return runSearch(cmd, func(ctx context.Context, s session) ([]domain.FamilyMetadata, error) {
		return s.SearchByCriteria(ctx, criteria, searchLimit)
	})
}

func runSearch(cmd *cobra.Command, search func(context.Context, session) ([]domain.FamilyMetadata, error)) error {
	if searchLimit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", domain.ErrInvalidInput)
	}
	return withSession(cmd, func(ctx context.Context, s session) error {
		families, err := search(ctx, s)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return outputFamilies(cmd, families, searchJSON)
	})
}
