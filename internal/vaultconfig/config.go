// Package vaultconfig holds the per-vault configuration that governs which
// files are indexable and how the watcher debounces events.
package vaultconfig

import "time"

// Config mirrors the knobs a vault exposes to the indexing core: ignored
// directory fragments, recognized note/attachment extensions, and the
// watcher's debounce window.
type Config struct {
	IgnoreDirs           []string      `json:"ignoreDirs"`
	NoteExtensions       []string      `json:"noteExtensions"`
	AttachmentExtensions []string      `json:"attachmentExtensions"`
	WatchDebounce        time.Duration `json:"watchDebounce"`
}

// Default returns the conventional defaults: ignore the usual tool/project
// directories, treat .md/.canvas as notes, and debounce for 400ms.
func Default() Config {
	return Config{
		IgnoreDirs:           []string{".obsidian", ".git", ".trash", "node_modules", "target"},
		NoteExtensions:       []string{"md", "canvas"},
		AttachmentExtensions: []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "pdf"},
		WatchDebounce:        400 * time.Millisecond,
	}
}
