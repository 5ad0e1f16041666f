package yaml_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/tramit"
	"github.com/fwojciec/tramit/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	t.Parallel()

	t.Run("overrides listed keys and keeps the rest", func(t *testing.T) {
		t.Parallel()

		doc := `
title:
  - h1.tramit
  - h1
sections:
  - field: requirements
    keywords: [requisits, documentació]
`
		rules, err := yaml.LoadRules(strings.NewReader(doc))

		require.NoError(t, err)
		assert.Equal(t, []string{"h1.tramit", "h1"}, rules.Title)
		assert.Equal(t, []tramit.SectionRule{
			{Field: tramit.FieldRequirements, Keywords: []string{"requisits", "documentació"}},
		}, rules.Sections)
		assert.Equal(t, tramit.DefaultRules().Description, rules.Description)
		assert.Equal(t, tramit.DefaultRules().AdditionalInfo, rules.AdditionalInfo)
	})

	t.Run("empty document yields defaults", func(t *testing.T) {
		t.Parallel()

		rules, err := yaml.LoadRules(strings.NewReader(""))

		require.NoError(t, err)
		assert.Equal(t, tramit.DefaultRules(), *rules)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadRules(strings.NewReader("titles: [h1]\n"))

		require.Error(t, err)
		assert.Equal(t, tramit.EINVALID, tramit.ErrorCode(err))
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadRules(strings.NewReader("title: [h1\n"))

		require.Error(t, err)
		assert.Equal(t, tramit.EINVALID, tramit.ErrorCode(err))
	})

	t.Run("rejects unknown section field", func(t *testing.T) {
		t.Parallel()

		doc := `
sections:
  - field: fees
    keywords: [tasas]
`
		_, err := yaml.LoadRules(strings.NewReader(doc))

		require.Error(t, err)
		assert.Equal(t, tramit.EINVALID, tramit.ErrorCode(err))
		assert.Contains(t, tramit.ErrorMessage(err), "fees")
	})

	t.Run("rejects blank keyword", func(t *testing.T) {
		t.Parallel()

		doc := `
sections:
  - field: requirements
    keywords:
      - requisitos
      - ""
`
		_, err := yaml.LoadRules(strings.NewReader(doc))

		require.Error(t, err)
		assert.Equal(t, tramit.EINVALID, tramit.ErrorCode(err))
	})
}

func TestLoadRulesFile(t *testing.T) {
	t.Parallel()

	t.Run("reads rules from disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("title: [h2]\n"), 0o644))

		rules, err := yaml.LoadRulesFile(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"h2"}, rules.Title)
	})

	t.Run("missing file is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.Equal(t, tramit.ENOTFOUND, tramit.ErrorCode(err))
	})
}

func TestWriteRules(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, yaml.WriteRules(&buf, tramit.DefaultRules()))

	assert.Contains(t, buf.String(), "additional_info:")
	assert.Contains(t, buf.String(), "field: requirements")

	rules, err := yaml.LoadRules(&buf)
	require.NoError(t, err)
	assert.Equal(t, tramit.DefaultRules(), *rules)
}
