package cmd

import (
	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// openVaultIndex opens the vault at root and walks it into a fresh
// in-memory index, the entry point every spec-engine-backed command uses
// before running a query/fuzzy/graph/link-health pass over it.
func openVaultIndex(root string) (*vaultpath.Vault, *index.VaultIndex, error) {
	v, err := vaultpath.Open(root)
	if err != nil {
		return nil, nil, err
	}
	idx, err := index.Build(v)
	if err != nil {
		return nil, nil, err
	}
	return v, idx, nil
}
