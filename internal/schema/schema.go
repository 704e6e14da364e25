// Package schema implements the boundary contract a note-schema validator
// must satisfy, not the rule engine itself: per the engine's own
// out-of-scope status, loading and evaluating a schema document is reduced
// to a minimal scope/required-field shape read as JSON rather than the
// original TOML rule language.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/parse"
	"github.com/atomicobject/vaultdex/internal/vaultlog"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// Severity classifies a violation.
type Severity int

const (
	SeverityWarn Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warn"
}

// SourceKind distinguishes where a schema document came from.
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceInline
)

// Source identifies where the active schema was loaded from.
type Source struct {
	Kind SourceKind
	Path string // SourceFile only
}

// StatusKind discriminates Status variants.
type StatusKind int

const (
	StatusDisabled StatusKind = iota
	StatusLoaded
	StatusError
)

// Status reports whether schema validation is active, and if not, why.
type Status struct {
	Kind    StatusKind
	Source  Source // Loaded, Error
	Version int    // Loaded
	Error   string // Error
}

// Violation is one rule breach surfaced by a Validator call.
type Violation struct {
	Severity Severity
	Code     string
	Message  string
	ScopeID  string
	RuleID   string
}

// ViolationRecord pairs a Violation with the path it was raised against, if
// the check was note-scoped rather than vault-wide.
type ViolationRecord struct {
	Path      string
	Violation Violation
}

// Report summarizes a full-vault validation pass.
type Report struct {
	Status     Status
	Errors     int
	Warnings   int
	Violations []ViolationRecord
}

// Validator is the contract this package exposes: callers talk to this
// interface, never to the concrete loader, so a real rule engine could
// replace DisabledValidator/scopedValidator later without touching callers.
type Validator interface {
	// ValidateNote checks one note's frontmatter/fields against its scope.
	ValidateNote(path string, note index.NoteMeta) []Violation
	// ValidateLayoutForPath checks one path against layout allow/deny rules.
	ValidateLayoutForPath(path string) []Violation
	// ValidateVaultLayout checks every indexed file that falls in a scope
	// against that scope's layout rules and reports required scopes with no
	// matching files; files outside every scope are not reported.
	ValidateVaultLayout(idx *index.VaultIndex) []Violation
	// ScopeForPath returns the id of the most specific scope containing
	// path, if any.
	ScopeForPath(path string) (string, bool)
}

// Load looks for a schema document at the vault's conventional location and
// returns both the Validator to use and the Status describing how it got
// there. A missing file disables validation; a present-but-unreadable or
// unparsable one reports StatusError while still returning a working
// no-op Validator so callers never need a nil check.
func Load(v *vaultpath.Vault) (Validator, Status) {
	path := schemaPathForVault(v)
	source := Source{Kind: SourceFile, Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			vaultlog.Default().Info("schema not found; validation disabled", "path", path)
			return DisabledValidator{}, Status{Kind: StatusDisabled}
		}
		vaultlog.Default().Error("failed to read schema", "path", path, "error", err)
		return DisabledValidator{}, Status{Kind: StatusError, Source: source, Error: err.Error()}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		vaultlog.Default().Error("failed to parse schema", "path", path, "error", err)
		return DisabledValidator{}, Status{Kind: StatusError, Source: source, Error: err.Error()}
	}

	vaultlog.Default().Info("schema loaded", "path", path, "version", doc.Version)
	return &scopedValidator{doc: doc}, Status{Kind: StatusLoaded, Source: source, Version: doc.Version}
}

// FromJSON builds an inline Validator from an already-loaded document,
// bypassing the vault filesystem lookup — used by tests and by callers
// that keep their schema embedded rather than on disk.
func FromJSON(data []byte) (Validator, Status, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Status{}, fmt.Errorf("parse inline schema: %w", err)
	}
	return &scopedValidator{doc: doc}, Status{Kind: StatusLoaded, Source: Source{Kind: SourceInline}, Version: doc.Version}, nil
}

func schemaPathForVault(v *vaultpath.Vault) string {
	return filepath.Join(v.Root(), ".obsidian", "vaultdex-schema.json")
}

// document is the JSON-native stand-in for the original TOML schema: just
// enough of its scope/required-field shape to drive ValidateNote and
// ValidateLayoutForPath, with the allow/deny glob rule engine left out.
type document struct {
	Version int     `json:"version"`
	Scopes  []scope `json:"scopes"`
}

type scope struct {
	ID             string   `json:"id"`
	PathPrefix     string   `json:"pathPrefix"`
	Required       bool     `json:"required"`
	RequiredFields []string `json:"requiredFields"`
	RequiredTags   []string `json:"requiredTags,omitempty"`
	DenyExtensions []string `json:"denyExtensions,omitempty"`
	UnmatchedDeny  bool     `json:"unmatchedDeny,omitempty"`
	FieldsSeverity Severity `json:"-"`
	severityJSON   string
}

func (s *scope) UnmarshalJSON(data []byte) error {
	type alias scope
	aux := struct {
		Severity string `json:"severity"`
		*alias
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.severityJSON = aux.Severity
	if strings.EqualFold(aux.Severity, "error") {
		s.FieldsSeverity = SeverityError
	} else {
		s.FieldsSeverity = SeverityWarn
	}
	return nil
}

func (s scope) matches(path string) bool {
	return s.PathPrefix == "" || strings.HasPrefix(path, s.PathPrefix)
}

// bestMatch returns the scope whose PathPrefix is the longest match for
// path, mirroring the original's "most specific scope wins" resolution.
func bestMatch(scopes []scope, path string) (scope, bool) {
	best := -1
	bestLen := -1
	for i, s := range scopes {
		if s.matches(path) && len(s.PathPrefix) > bestLen {
			best, bestLen = i, len(s.PathPrefix)
		}
	}
	if best < 0 {
		return scope{}, false
	}
	return scopes[best], true
}

// DisabledValidator is the zero-effort Validator used whenever no schema
// document is active; every call returns no violations and no scope.
type DisabledValidator struct{}

func (DisabledValidator) ValidateNote(string, index.NoteMeta) []Violation    { return nil }
func (DisabledValidator) ValidateLayoutForPath(string) []Violation          { return nil }
func (DisabledValidator) ValidateVaultLayout(*index.VaultIndex) []Violation { return nil }
func (DisabledValidator) ScopeForPath(string) (string, bool)                { return "", false }

var _ Validator = DisabledValidator{}
var _ Validator = (*scopedValidator)(nil)

type scopedValidator struct {
	doc document
}

func (v *scopedValidator) ScopeForPath(path string) (string, bool) {
	s, ok := bestMatch(v.doc.Scopes, path)
	if !ok {
		return "", false
	}
	return s.ID, true
}

func (v *scopedValidator) ValidateNote(path string, note index.NoteMeta) []Violation {
	s, ok := bestMatch(v.doc.Scopes, path)
	if !ok {
		return nil
	}

	var out []Violation
	for _, field := range s.RequiredFields {
		if _, present := fieldGet(note.Fields, field); !present {
			out = append(out, Violation{
				Severity: s.FieldsSeverity,
				Code:     "missing-required-field",
				Message:  fmt.Sprintf("note is missing required field %q", field),
				ScopeID:  s.ID,
			})
		}
	}
	for _, tag := range s.RequiredTags {
		if !containsFold(note.Tags, tag) {
			out = append(out, Violation{
				Severity: s.FieldsSeverity,
				Code:     "missing-required-tag",
				Message:  fmt.Sprintf("note is missing required tag %q", tag),
				ScopeID:  s.ID,
			})
		}
	}
	return out
}

func (v *scopedValidator) ValidateLayoutForPath(path string) []Violation {
	s, ok := bestMatch(v.doc.Scopes, path)
	if !ok {
		return nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, denied := range s.DenyExtensions {
		if strings.EqualFold(denied, ext) {
			return []Violation{{
				Severity: SeverityError,
				Code:     "denied-extension",
				Message:  fmt.Sprintf("extension %q is not allowed in scope %q", ext, s.ID),
				ScopeID:  s.ID,
			}}
		}
	}
	return nil
}

func (v *scopedValidator) ValidateVaultLayout(idx *index.VaultIndex) []Violation {
	var out []Violation

	present := make(map[string]bool, len(v.doc.Scopes))
	for _, f := range idx.AllFiles() {
		s, ok := bestMatch(v.doc.Scopes, f.Path)
		if !ok {
			continue
		}
		present[s.ID] = true
		out = append(out, v.ValidateLayoutForPath(f.Path)...)
	}

	for _, s := range v.doc.Scopes {
		if s.Required && !present[s.ID] {
			out = append(out, Violation{
				Severity: SeverityError,
				Code:     "empty-required-scope",
				Message:  fmt.Sprintf("required scope %q has no matching files", s.ID),
				ScopeID:  s.ID,
			})
		}
	}
	return out
}

func fieldGet(fm *parse.FieldMap, key string) (parse.FieldValue, bool) {
	if fm == nil {
		return parse.FieldValue{}, false
	}
	return fm.Get(key)
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
