package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/parse"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

func TestLoadDisabledWhenNoSchemaFile(t *testing.T) {
	dir := t.TempDir()
	v, err := vaultpath.Open(dir)
	require.NoError(t, err)

	validator, status := Load(v)
	assert.Equal(t, StatusDisabled, status.Kind)
	assert.Empty(t, validator.ValidateNote("notes/a.md", index.NoteMeta{}))
	_, ok := validator.ScopeForPath("notes/a.md")
	assert.False(t, ok)
}

func TestLoadErrorOnUnparsableSchema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".obsidian"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".obsidian", "vaultdex-schema.json"), []byte("not json"), 0o644))

	v, err := vaultpath.Open(dir)
	require.NoError(t, err)

	_, status := Load(v)
	assert.Equal(t, StatusError, status.Kind)
	assert.NotEmpty(t, status.Error)
}

const testSchema = `{
  "version": 1,
  "scopes": [
    {"id": "people", "pathPrefix": "people/", "required": true, "requiredFields": ["role"], "requiredTags": ["person"]},
    {"id": "attachments", "pathPrefix": "attachments/", "denyExtensions": ["exe"]}
  ]
}`

func TestFromJSONValidatesRequiredFieldsAndTags(t *testing.T) {
	v, status, err := FromJSON([]byte(testSchema))
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, status.Kind)
	assert.Equal(t, 1, status.Version)

	fm := parse.NewFieldMap()
	note := index.NoteMeta{Fields: fm, Tags: []string{"draft"}}
	violations := v.ValidateNote("people/alice.md", note)
	require.Len(t, violations, 2)

	codes := []string{violations[0].Code, violations[1].Code}
	assert.Contains(t, codes, "missing-required-field")
	assert.Contains(t, codes, "missing-required-tag")

	fm.Merge("role", parse.StringValue("engineer"))
	note = index.NoteMeta{Fields: fm, Tags: []string{"person"}}
	assert.Empty(t, v.ValidateNote("people/alice.md", note))
}

func TestFromJSONValidatesLayoutAndUnmatchedScope(t *testing.T) {
	v, _, err := FromJSON([]byte(testSchema))
	require.NoError(t, err)

	layoutViolations := v.ValidateLayoutForPath("attachments/virus.exe")
	require.Len(t, layoutViolations, 1)
	assert.Equal(t, "denied-extension", layoutViolations[0].Code)

	idx := index.New()
	violations := v.ValidateVaultLayout(idx)
	require.Len(t, violations, 1)
	assert.Equal(t, "empty-required-scope", violations[0].Code)
	assert.Equal(t, "people", violations[0].ScopeID)
}

func TestScopeForPathPicksMostSpecific(t *testing.T) {
	doc := `{"version":1,"scopes":[
		{"id":"root","pathPrefix":""},
		{"id":"people","pathPrefix":"people/"}
	]}`
	v, _, err := FromJSON([]byte(doc))
	require.NoError(t, err)

	id, ok := v.ScopeForPath("people/alice.md")
	require.True(t, ok)
	assert.Equal(t, "people", id)
}
