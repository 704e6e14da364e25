package cmd

import (
	"github.com/atomicobject/vaultdex/internal/graph"
	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/pkg/obsidian"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Link graph utilities (wikilinks)",
}

var graphExcludePatterns []string
var graphIncludePatterns []string
var graphLimit int
var graphShowAll bool
var graphNoColor bool
var graphMinDegree int
var graphMutualOnly bool
var graphRecencyCascade bool

func init() {
	graphCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "vault name")
	graphCmd.PersistentFlags().IntVar(&graphLimit, "limit", 100, "max items to show in summaries (authority/hub, communities, clusters)")
	graphCmd.PersistentFlags().BoolVar(&graphShowAll, "all", false, "show full listings instead of summaries")
	graphCmd.PersistentFlags().BoolVar(&graphNoColor, "no-color", false, "disable colored graph output")
	graphCmd.PersistentFlags().StringSliceVar(&graphExcludePatterns, "exclude", nil, "exclude notes matching these patterns (same syntax as list/prompt)")
	graphCmd.PersistentFlags().StringSliceVar(&graphIncludePatterns, "include", nil, "include only notes matching these patterns (same syntax as list/prompt)")
	graphCmd.PersistentFlags().IntVar(&graphMinDegree, "min-degree", 2, "drop notes whose in+out degree is below this number before analysis (0 = no filter)")
	graphCmd.PersistentFlags().BoolVar(&graphMutualOnly, "mutual-only", false, "only consider mutual (bidirectional) links when building the graph")
	graphCmd.PersistentFlags().BoolVar(&graphRecencyCascade, "recency-cascade", true, "cascade inferred recency beyond 1 hop (disable for legacy single-hop)")
	rootCmd.AddCommand(graphCmd)
}

// graphAnalysisOptions turns the graph command's persistent flags into
// internal/graph analysis options, resolving --include/--exclude patterns
// against the vault via the same tag:/find:/path matcher `list` uses.
func graphAnalysisOptions(vault *obsidian.Vault, note *obsidian.Note) (graph.AnalysisOptions, error) {
	opts := graph.AnalysisOptions{
		MinDegree:      graphMinDegree,
		MutualOnly:     graphMutualOnly,
		RecencyCascade: graphRecencyCascade,
	}

	if len(graphExcludePatterns) > 0 {
		matches, err := resolveMatches(vault, note, graphExcludePatterns)
		if err != nil {
			return opts, err
		}
		opts.ExcludedPaths = pathSet(matches)
	}
	if len(graphIncludePatterns) > 0 {
		matches, err := resolveMatches(vault, note, graphIncludePatterns)
		if err != nil {
			return opts, err
		}
		opts.IncludedPaths = pathSet(matches)
	}
	return opts, nil
}

func pathSet(paths []string) map[string]struct{} {
	if len(paths) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

// graphNodeTitle derives a display title from an indexed note path.
func graphNodeTitle(idx *index.VaultIndex, path string) string {
	if note, ok := idx.Note(path); ok && note.Title != "" {
		return note.Title
	}
	return path
}
