package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	c := Default()

	assert.Equal(t, "https://aegismind.network", c.BaseURL)
	assert.Len(t, c.Records, 15)
	assert.Len(t, c.Pages, 10)
	assert.Equal(t, "Fully Homomorphic Encryption (FHE)", c.Records[0].Title)
	assert.Equal(t, "/technology#fhe", c.Records[0].URL)
	assert.Equal(t, CategoryTechnology, c.Records[0].Category)
	require.NoError(t, c.Validate())
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.Records[0].Title = "mutated"
	a.Records[0].Keywords[0] = "mutated"

	b := Default()
	assert.Equal(t, "Fully Homomorphic Encryption (FHE)", b.Records[0].Title)
	assert.Equal(t, "FHE", b.Records[0].Keywords[0])
}

func TestParseRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{
			name: "missing base url",
			toml: `[[records]]
title = "A"
url = "/a"
category = "team"`,
		},
		{
			name: "empty title",
			toml: `base_url = "https://aegismind.network"
[[records]]
title = " "
url = "/a"
category = "team"`,
		},
		{
			name: "bad route",
			toml: `base_url = "https://aegismind.network"
[[records]]
title = "A"
url = "a"
category = "team"`,
		},
		{
			name: "unknown category",
			toml: `base_url = "https://aegismind.network"
[[records]]
title = "A"
url = "/a"
category = "gossip"`,
		},
		{
			name: "priority out of range",
			toml: `base_url = "https://aegismind.network"
[[pages]]
path = "/a"
title = "A"
priority = 1.5`,
		},
		{
			name: "duplicate page",
			toml: `base_url = "https://aegismind.network"
[[pages]]
path = "/a"
title = "A"
[[pages]]
path = "/a"
title = "B"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestParseNormalizesCategoryCase(t *testing.T) {
	c, err := Parse([]byte(`base_url = "https://aegismind.network/"
[[records]]
title = "A"
url = "/a"
category = "Use-Case"`))
	require.NoError(t, err)
	assert.Equal(t, CategoryUseCase, c.Records[0].Category)
	assert.Equal(t, "https://aegismind.network", c.BaseURL)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.toml")
	require.NoError(t, os.WriteFile(path, contentTOML, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Records, 15)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestContentPage(t *testing.T) {
	c := Default()

	p, ok := c.Page("/technology#fhe")
	require.True(t, ok)
	assert.Equal(t, "Technology", p.Title)

	p, ok = c.Page("/")
	require.True(t, ok)
	assert.Equal(t, "Home", p.Title)

	_, ok = c.Page("/nope")
	assert.False(t, ok)
}

func TestEveryRecordRoutesToAPage(t *testing.T) {
	c := Default()
	for _, r := range c.Records {
		_, ok := c.Page(r.URL)
		assert.True(t, ok, "no page for %s", r.URL)
	}
}

func TestCategory(t *testing.T) {
	c, err := ParseCategory(" Documentation ")
	require.NoError(t, err)
	assert.Equal(t, CategoryDocumentation, c)
	assert.Equal(t, "Documentation", c.Label())
	assert.Equal(t, "Use Case", CategoryUseCase.Label())

	_, err = ParseCategory("blog")
	assert.Error(t, err)
	assert.Equal(t, "blog", Category("blog").Label())
}
