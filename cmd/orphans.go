package cmd

import (
	"fmt"
	"sort"

	"github.com/atomicobject/vaultdex/internal/graph"
	"github.com/atomicobject/vaultdex/pkg/obsidian"
	"github.com/spf13/cobra"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List notes with no inbound or outbound wikilinks",
	RunE: func(cmd *cobra.Command, args []string) error {
		selectedVault := vaultName
		if selectedVault == "" {
			vault := &obsidian.Vault{}
			defaultName, err := vault.DefaultName()
			if err != nil {
				return err
			}
			selectedVault = defaultName
		}

		vault := obsidian.Vault{Name: selectedVault}
		note := obsidian.Note{}
		vaultPath, err := vault.Path()
		if err != nil {
			return err
		}

		_, idx, err := openVaultIndex(vaultPath)
		if err != nil {
			return err
		}
		opts, err := graphAnalysisOptions(&vault, &note)
		if err != nil {
			return err
		}
		analysis := graph.Analyze(idx, opts)

		fmt.Printf("Orphans (no inbound or outbound wikilinks) in %q (%s):\n", selectedVault, vaultPath)
		if len(analysis.Orphans) == 0 {
			fmt.Println("  (none)")
			return nil
		}

		sorted := make([]string, len(analysis.Orphans))
		copy(sorted, analysis.Orphans)
		sort.Strings(sorted)

		for _, path := range sorted {
			fmt.Printf("  %s\n", path)
		}
		return nil
	},
}

func init() {
	graphCmd.AddCommand(orphansCmd)
}
