package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atomicobject/vaultdex/internal/fuzzy"
	"github.com/atomicobject/vaultdex/internal/linkresolve"
	"github.com/atomicobject/vaultdex/internal/query"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
	"github.com/atomicobject/vaultdex/pkg/obsidian"
	"github.com/spf13/cobra"
)

var (
	followLinks   bool
	maxDepth      int
	absolutePaths bool
	debug         bool
)

// isTerminal returns true if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List files in vault with various filtering options",
	Long: `List files in your Obsidian vault with various filtering options:
- File paths (exact matches)
- Tag-based filtering (tag:some-tag)
- Fuzzy search (search:query)
- Optional recursive wikilink following

Examples:
  obsidian-cli list tag:career-pathing "./Notes/Ideas.md" search:TLS
  obsidian-cli list tag:"some-tag" tag:'another-tag'
  obsidian-cli list "./Notes" search:project`,
	Args: cobra.ArbitraryArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&vaultName, "vault", "v", "", "vault name")
	listCmd.Flags().BoolVarP(&followLinks, "follow", "f", false, "follow wikilinks (takes effect only with --depth > 0)")
	listCmd.Flags().IntVarP(&maxDepth, "depth", "d", 0, "maximum depth for following wikilinks (0 means don't follow)")
	listCmd.Flags().BoolVarP(&absolutePaths, "absolute", "a", false, "print absolute paths")
	listCmd.Flags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.AddCommand(listCmd)
}

func unquoteArg(s string) string {
	if len(s) >= 2 && (strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") || strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")) {
		return s[1 : len(s)-1]
	}
	return s
}

// runList resolves each argument against the index: tag:/search: prefixes
// run a query/fuzzy pass, bare arguments are treated as vault-relative file
// paths, optionally expanded by following their outgoing wikilinks up to
// --depth hops.
func runList(cmd *cobra.Command, args []string) error {
	if maxDepth > 0 {
		followLinks = true
	}

	if vaultName == "" {
		vault := &obsidian.Vault{}
		defaultName, err := vault.DefaultName()
		if err != nil {
			log.Fatal(err)
		}
		vaultName = defaultName
	}

	vault := obsidian.Vault{Name: vaultName}
	vaultPath, err := vault.Path()
	if err != nil {
		log.Fatal(err)
	}

	v, idx, err := openVaultIndex(vaultPath)
	if err != nil {
		log.Fatal(err)
	}
	resolver := linkresolve.New(idx)

	seen := make(map[string]bool)
	var ordered []string
	addPath := func(p string) {
		if !seen[p] {
			seen[p] = true
			ordered = append(ordered, p)
		}
	}

	var seedFiles []string

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "tag:"):
			tag := unquoteArg(strings.TrimPrefix(arg, "tag:"))
			for _, hit := range query.Notes().FromTag(tag).Execute(idx) {
				addPath(hit.Path)
			}
		case strings.HasPrefix(arg, "search:"):
			term := unquoteArg(strings.TrimPrefix(arg, "search:"))
			for _, hit := range fuzzy.SearchFilenames(idx, term, 50) {
				addPath(hit.Path)
			}
		case strings.HasPrefix(arg, "find:"):
			term := unquoteArg(strings.TrimPrefix(arg, "find:"))
			for _, hit := range fuzzy.SearchFilenames(idx, term, 50) {
				addPath(hit.Path)
			}
		default:
			rel, convErr := v.ToRel(arg)
			if convErr != nil {
				continue
			}
			if _, ok := idx.File(rel.String()); ok {
				addPath(rel.String())
				seedFiles = append(seedFiles, rel.String())
			}
		}
	}

	if followLinks && maxDepth > 0 {
		depthOf := make(map[string]int, len(seedFiles))
		queue := append([]string(nil), seedFiles...)
		for _, f := range seedFiles {
			depthOf[f] = 0
		}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if depthOf[cur] >= maxDepth {
				continue
			}
			for _, target := range idx.OutgoingLinks(cur) {
				res := resolver.ResolveTarget(target, cur)
				if res.Status != linkresolve.Resolved {
					continue
				}
				addPath(res.Path)
				if _, visited := depthOf[res.Path]; !visited {
					depthOf[res.Path] = depthOf[cur] + 1
					queue = append(queue, res.Path)
				}
			}
		}
	}

	for _, p := range ordered {
		path := p
		if absolutePaths {
			if rel, convErr := vaultpath.New(p); convErr == nil {
				path = v.ToAbs(rel)
			}
		}
		if isTerminal() {
			fmt.Printf("%s\n", path)
		} else {
			fmt.Printf("%q\n", path)
		}
	}

	return nil
}
