package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/pkg/actions"
	"github.com/atomicobject/vaultdex/pkg/obsidian"
	"github.com/spf13/cobra"
)

var (
	tagsJSON         bool
	tagsMarkdown     bool
	tagsMatch        []string
	tagsMutationJSON bool
	tagsMutationMD   bool
	tagsDryRun       bool
	tagsWorkers      int
	tagsInputs       []string
	tagsRenameTarget string
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage tags (list/add/delete/rename)",
	Long: `Manage tags in the vault using subcommands.

Examples:
  obscli tags list                           # List all tags
  obscli tags list --match tag:project       # List tags for project notes
  obscli tags add work urgent --inputs tag:project find:meeting
  obscli tags delete work urgent --dry-run
  obscli tags rename old --to new --workers 4`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var listTagsCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tags with individual and aggregate counts",
	RunE:    runListTags,
}

var addTagsCmd = &cobra.Command{
	Use:   "add <tag> [<tag>...] --inputs <criteria...>",
	Short: "Add tags to notes matching input criteria",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(tagsInputs) == 0 {
			return fmt.Errorf("--inputs is required (e.g., tag:project, find:meeting, paths)")
		}

		if err := ensureVaultName(); err != nil {
			return err
		}

		vault := obsidian.Vault{Name: vaultName}
		note := obsidian.Note{}

		inputs, expr, err := actions.ParseInputsWithExpression(tagsInputs)
		if err != nil {
			return fmt.Errorf("error parsing input criteria: %w", err)
		}

		matchingFiles, err := actions.ListFiles(&vault, &note, actions.ListParams{
			Inputs:         inputs,
			Expression:     expr,
			MaxDepth:       0,
			SkipAnchors:    false,
			SkipEmbeds:     false,
			AbsolutePaths:  false,
			SuppressedTags: []string{},
		})
		if err != nil {
			return fmt.Errorf("failed to get matching files: %w", err)
		}

		if len(matchingFiles) == 0 {
			fmt.Println("No files match the specified criteria.")
			return nil
		}

		summary, err := actions.AddTagsToFilesWithWorkers(&vault, &note, args, matchingFiles, tagsDryRun, tagsWorkers)
		if err != nil {
			return fmt.Errorf("failed to add tags: %w", err)
		}

		return outputMutationSummary(summary, "add", tagsDryRun, tagsMutationJSON, tagsMutationMD)
	},
}

var deleteTagsCmd = &cobra.Command{
	Use:     "delete <tag> [<tag>...]",
	Aliases: []string{"del", "rm"},
	Short:   "Delete tags from all notes that contain them",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureVaultName(); err != nil {
			return err
		}

		vault := obsidian.Vault{Name: vaultName}
		note := obsidian.Note{}

		summary, err := actions.DeleteTagsWithWorkers(&vault, &note, args, tagsDryRun, tagsWorkers)
		if err != nil {
			return fmt.Errorf("failed to delete tags: %w", err)
		}

		return outputMutationSummary(summary, "delete", tagsDryRun, tagsMutationJSON, tagsMutationMD)
	},
}

var renameTagsCmd = &cobra.Command{
	Use:   "rename <from-tag> [<from-tag>...] --to <to-tag>",
	Short: "Rename tags across the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(tagsRenameTarget) == "" {
			return fmt.Errorf("--to destination tag is required")
		}

		if err := ensureVaultName(); err != nil {
			return err
		}

		vault := obsidian.Vault{Name: vaultName}
		note := obsidian.Note{}

		summary, err := actions.RenameTagsWithWorkers(&vault, &note, args, tagsRenameTarget, tagsDryRun, tagsWorkers)
		if err != nil {
			return fmt.Errorf("failed to rename tags: %w", err)
		}

		return outputMutationSummary(summary, "rename", tagsDryRun, tagsMutationJSON, tagsMutationMD)
	},
}

func runListTags(cmd *cobra.Command, _ []string) error {
	if err := ensureVaultName(); err != nil {
		return err
	}

	vault := obsidian.Vault{Name: vaultName}
	note := obsidian.Note{}

	vaultPath, err := vault.Path()
	if err != nil {
		return err
	}
	_, idx, err := openVaultIndex(vaultPath)
	if err != nil {
		return err
	}

	var scope map[string]bool
	if len(tagsMatch) > 0 {
		matches, err := resolveMatches(&vault, &note, tagsMatch)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No files match the specified criteria.")
			return nil
		}
		scope = make(map[string]bool, len(matches))
		for _, m := range matches {
			scope[m] = true
		}
	}

	tagSummaries := buildTagSummaries(idx, scope)

	if tagsJSON {
		return outputTagsJSON(tagSummaries)
	}

	if tagsMarkdown {
		return outputTagsMarkdown(tagSummaries)
	}

	return outputTagsTable(tagSummaries)
}

// buildTagSummaries computes individual and hierarchical (slash-descendant)
// aggregate counts directly off the index's tag reverse-map, restricted to
// scope when non-nil.
func buildTagSummaries(idx *index.VaultIndex, scope map[string]bool) []actions.TagSummary {
	allTags := idx.AllTags()

	individual := make(map[string]int, len(allTags))
	for _, t := range allTags {
		count := 0
		for _, p := range idx.FilesWithTag(t) {
			if scope == nil || scope[p] {
				count++
			}
		}
		individual[t] = count
	}

	summaries := make([]actions.TagSummary, 0, len(allTags))
	for _, t := range allTags {
		total := individual[t]
		prefix := t + "/"
		for _, other := range allTags {
			if other != t && strings.HasPrefix(other, prefix) {
				total += individual[other]
			}
		}
		if individual[t] == 0 && total == 0 {
			continue
		}
		summaries = append(summaries, actions.TagSummary{
			Name:            t,
			IndividualCount: individual[t],
			AggregateCount:  total,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AggregateCount != summaries[j].AggregateCount {
			return summaries[i].AggregateCount > summaries[j].AggregateCount
		}
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

func outputTagsJSON(tagSummaries []actions.TagSummary) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tagSummaries)
}

func outputTagsTable(tagSummaries []actions.TagSummary) error {
	if len(tagSummaries) == 0 {
		fmt.Println("No tags found in vault.")
		return nil
	}

	// Print header
	fmt.Printf("%-30s %6s %6s\n", "Tag", "Indiv", "Total")
	fmt.Printf("%-30s %6s %6s\n", "---", "-----", "-----")

	// Print each tag
	for _, tag := range tagSummaries {
		fmt.Printf("%-30s %6d %6d\n", tag.Name, tag.IndividualCount, tag.AggregateCount)
	}

	return nil
}

func outputTagsMarkdown(tagSummaries []actions.TagSummary) error {
	if len(tagSummaries) == 0 {
		fmt.Println("No tags found in vault.")
		return nil
	}

	// Print markdown table header
	fmt.Println("| Tag | Indiv | Total |")
	fmt.Println("|-----|-------|-------|")

	// Print each tag
	for _, tag := range tagSummaries {
		fmt.Printf("| %s | %d | %d |\n", tag.Name, tag.IndividualCount, tag.AggregateCount)
	}

	return nil
}

func outputMutationSummary(summary actions.TagMutationSummary, operation string, dryRun bool, jsonOutput bool, markdownOutput bool) error {
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	if markdownOutput {
		return outputMutationSummaryMarkdown(summary, operation, dryRun)
	}

	return outputMutationSummaryTable(summary, operation, dryRun)
}

func outputMutationSummaryTable(summary actions.TagMutationSummary, operation string, dryRun bool) error {
	verb := operation + "d"
	if dryRun {
		verb = "would " + operation
	}

	if summary.NotesTouched == 0 {
		fmt.Printf("No tags %s.\n", verb)
		return nil
	}

	fmt.Printf("%s tags in %d note(s):\n", strings.ToUpper(string(verb[0]))+verb[1:], summary.NotesTouched)

	if len(summary.TagChanges) > 0 {
		fmt.Println("\nTag changes:")
		for tag, count := range summary.TagChanges {
			fmt.Printf("  %s: %d note(s)\n", tag, count)
		}
	}

	if !dryRun && len(summary.FilesChanged) > 0 {
		fmt.Printf("\nFiles modified: %d\n", len(summary.FilesChanged))
	}

	return nil
}

func outputMutationSummaryMarkdown(summary actions.TagMutationSummary, operation string, dryRun bool) error {
	verb := operation + "d"
	if dryRun {
		verb = "would " + operation
	}

	if summary.NotesTouched == 0 {
		fmt.Printf("No tags %s.\n", verb)
		return nil
	}

	fmt.Printf("## %s tags in %d note(s)\n\n", strings.ToUpper(string(verb[0]))+verb[1:], summary.NotesTouched)

	if len(summary.TagChanges) > 0 {
		fmt.Println("| Tag | Notes Changed |")
		fmt.Println("|-----|---------------|")
		for tag, count := range summary.TagChanges {
			fmt.Printf("| %s | %d |\n", tag, count)
		}
		fmt.Println()
	}

	if !dryRun && len(summary.FilesChanged) > 0 {
		fmt.Printf("**Files modified:** %d\n", len(summary.FilesChanged))
	}

	return nil
}

func ensureVaultName() error {
	if vaultName != "" {
		return nil
	}

	vault := &obsidian.Vault{}
	defaultName, err := vault.DefaultName()
	if err != nil {
		return fmt.Errorf("failed to get default vault name: %w", err)
	}
	vaultName = defaultName
	return nil
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&tagsJSON, "json", false, "Output tags as JSON")
	cmd.Flags().BoolVar(&tagsMarkdown, "markdown", false, "Output tags as markdown table")
	cmd.Flags().StringSliceVarP(&tagsMatch, "match", "m", nil, "Restrict listing to files matched by find/tag/path patterns (only for listing)")
}

func addMutationFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&tagsMutationJSON, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&tagsMutationMD, "markdown", false, "Output results as markdown table")
	cmd.Flags().BoolVar(&tagsDryRun, "dry-run", false, "Show what would be changed without making changes")
	cmd.Flags().IntVarP(&tagsWorkers, "workers", "w", runtime.NumCPU(), "Number of parallel workers")
}

func init() {
	tagsCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "vault name")

	addListFlags(listTagsCmd)

	addMutationFlags(addTagsCmd)
	addMutationFlags(deleteTagsCmd)
	addMutationFlags(renameTagsCmd)

	addTagsCmd.Flags().StringSliceVarP(&tagsInputs, "inputs", "i", nil, "Input criteria (find:/tag:/paths or boolean expressions) to select target notes")
	renameTagsCmd.Flags().StringVarP(&tagsRenameTarget, "to", "t", "", "Destination tag name for rename operation")

	tagsCmd.AddCommand(listTagsCmd)
	tagsCmd.AddCommand(addTagsCmd)
	tagsCmd.AddCommand(deleteTagsCmd)
	tagsCmd.AddCommand(renameTagsCmd)
	rootCmd.AddCommand(tagsCmd)
}
