package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/atomicobject/vaultdex/internal/fuzzy"
	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/pkg/actions"
	"github.com/atomicobject/vaultdex/pkg/obsidian"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/spf13/cobra"
)

const searchContentResultLimit = 200

var searchContentCmd = &cobra.Command{
	Use:   "search-content <term>",
	Short: "Search note content for search term",
	Long: `Searches the contents of all notes for a term.

Displays matching notes with line numbers and snippets. If multiple
matches are found, opens a fuzzy finder to select which note to open.`,
	Example: `  # Search for a term
  obsidian-cli search-content "TODO"

  # Search and open in editor
  obsidian-cli search-content "bug" --editor

  # Search in specific vault
  obsidian-cli search-content "project" --vault "Work"`,
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"sc"},
	RunE: func(cmd *cobra.Command, args []string) error {
		vault := obsidian.Vault{Name: vaultName}
		uri := obsidian.Uri{}

		searchTerm := args[0]
		useEditor, err := cmd.Flags().GetBool("editor")
		if err != nil {
			return fmt.Errorf("failed to parse 'editor' flag: %w", err)
		}

		vaultDefaultName, err := vault.DefaultName()
		if err != nil {
			return err
		}
		vaultPath, err := vault.Path()
		if err != nil {
			return err
		}

		v, idx, err := openVaultIndex(vaultPath)
		if err != nil {
			return err
		}

		hits, err := fuzzy.SearchContent(v, idx, searchTerm, searchContentResultLimit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Printf("No notes found containing '%s'\n", searchTerm)
			return nil
		}

		selected := hits[0]
		if len(hits) > 1 {
			display := formatContentHitsForDisplay(hits)
			pick, err := fuzzyfinder.Find(display, func(i int) string { return display[i] })
			if err != nil {
				return err
			}
			selected = hits[pick]
		}

		if useEditor {
			fmt.Printf("Opening note: %s\n", selected.Path)
			return obsidian.OpenInEditor(filepath.Join(vaultPath, selected.Path))
		}

		obsidianUri := uri.Construct(actions.ObsOpenUrl, map[string]string{
			"file":  selected.Path,
			"vault": vaultDefaultName,
		})
		return uri.Execute(obsidianUri)
	},
}

func contentHitPathWithLine(h index.ContentSearchHit) string {
	if h.Line > 0 {
		return fmt.Sprintf("%s:%d", h.Path, h.Line)
	}
	return h.Path
}

func formatContentHitsForDisplay(hits []index.ContentSearchHit) []string {
	maxPathLen := 0
	for _, h := range hits {
		if n := len(contentHitPathWithLine(h)); n > maxPathLen {
			maxPathLen = n
		}
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = fmt.Sprintf("%-*s | %s", maxPathLen, contentHitPathWithLine(h), h.LineText)
	}
	return out
}

func init() {
	searchContentCmd.Flags().StringVarP(&vaultName, "vault", "v", "", "vault name")
	searchContentCmd.Flags().BoolP("editor", "e", false, "open in editor instead of Obsidian")
	rootCmd.AddCommand(searchContentCmd)
}
