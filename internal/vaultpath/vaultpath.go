// Package vaultpath holds the vault root + path policy: validating and
// normalizing vault-relative paths, and deciding which are indexable.
package vaultpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicobject/vaultdex/internal/vaultconfig"
)

const (
	InvalidPathError   = "invalid vault path"
	PathTraversalError = "path traversal is not allowed"
	AbsolutePathError  = "absolute paths are not allowed"
	EmptyPathError     = "empty path"
	VaultNotFoundError = "vault root does not exist"
	PathOutsideVault   = "path is outside vault"
)

// Path is a vault-relative, normalized, forward-slash path. The zero value
// is not valid; construct with New.
type Path struct {
	rel string // forward-slash joined, no leading/trailing slash
}

// New validates and normalizes a path fragment into a vault-relative Path.
// Rejects absolute paths and ".." traversal components; drops "." segments;
// rejects empty paths (before or after cleaning).
func New(raw string) (Path, error) {
	if raw == "" {
		return Path{}, errors.New(EmptyPathError)
	}
	if filepath.IsAbs(raw) || strings.HasPrefix(raw, "/") {
		return Path{}, errors.New(AbsolutePathError)
	}

	parts := strings.Split(filepath.ToSlash(raw), "/")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			return Path{}, errors.New(PathTraversalError)
		default:
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return Path{}, errors.New(EmptyPathError)
	}
	return Path{rel: strings.Join(cleaned, "/")}, nil
}

// String returns the normalized vault-relative form.
func (p Path) String() string { return p.rel }

// IsZero reports whether p is the unconstructed zero value.
func (p Path) IsZero() bool { return p.rel == "" }

// Base returns the final path component (like filepath.Base).
func (p Path) Base() string {
	if i := strings.LastIndexByte(p.rel, '/'); i >= 0 {
		return p.rel[i+1:]
	}
	return p.rel
}

// Dir returns the parent directory's normalized string, or "" if the path
// has no directory component.
func (p Path) Dir() string {
	if i := strings.LastIndexByte(p.rel, '/'); i >= 0 {
		return p.rel[:i]
	}
	return ""
}

// Ext returns the lowercased extension without the leading dot, or "" if
// there is none.
func (p Path) Ext() string {
	base := p.Base()
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return strings.ToLower(base[i+1:])
	}
	return ""
}

// Stem returns the final path component with its extension removed.
func (p Path) Stem() string {
	base := p.Base()
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// Vault is an opened, immutable root + its configuration.
type Vault struct {
	root string // canonical absolute path
	cfg  vaultconfig.Config
}

// Open canonicalizes root and pairs it with the default configuration.
func Open(root string) (*Vault, error) {
	return OpenWithConfig(root, vaultconfig.Default())
}

// OpenWithConfig canonicalizes root and pairs it with cfg. The root must
// already exist on disk.
func OpenWithConfig(root string, cfg vaultconfig.Config) (*Vault, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", VaultNotFoundError, root, err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", InvalidPathError, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		resolved = abs
	}
	return &Vault{root: resolved, cfg: cfg}, nil
}

// Root returns the vault's canonical absolute root.
func (v *Vault) Root() string { return v.root }

// Config returns the vault's configuration.
func (v *Vault) Config() vaultconfig.Config { return v.cfg }

// ToAbs joins rel onto the vault root.
func (v *Vault) ToAbs(rel Path) string {
	return filepath.Join(v.root, filepath.FromSlash(rel.rel))
}

// ToRel converts an absolute or vault-root-relative filesystem path into a
// validated vault Path, rejecting anything that escapes the root.
func (v *Vault) ToRel(abs string) (Path, error) {
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(v.root, abs)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(v.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return Path{}, fmt.Errorf("%s: %s", PathOutsideVault, abs)
	}
	return New(rel)
}

// IsIgnoredRel reports whether any path component matches a configured
// ignore-dir fragment.
func (v *Vault) IsIgnoredRel(rel Path) bool {
	for _, part := range strings.Split(rel.rel, "/") {
		for _, d := range v.cfg.IgnoreDirs {
			if part == d {
				return true
			}
		}
	}
	return false
}

// IsIndexableRel reports whether rel should be considered at all: not
// ignored, non-empty, and not a dotfile.
func (v *Vault) IsIndexableRel(rel Path) bool {
	if rel.IsZero() || v.IsIgnoredRel(rel) {
		return false
	}
	if strings.HasPrefix(rel.Base(), ".") {
		return false
	}
	return true
}

// IsIndexablePath converts abs/rel to a vault Path first, treating any
// conversion failure as non-indexable.
func (v *Vault) IsIndexablePath(absOrRel string) bool {
	rel, err := v.ToRel(absOrRel)
	if err != nil {
		return false
	}
	return v.IsIndexableRel(rel)
}
