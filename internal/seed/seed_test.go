package seed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vibefeed/internal/config"
	"vibefeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	posts := Defaults()
	require.Len(t, posts, 3)
	assert.Equal(t, "Sarah Johnson", posts[0].Author.Name)
	assert.Equal(t, 24, posts[0].Likes)
	assert.Equal(t, 8, posts[0].Comments)
	assert.Empty(t, posts[2].ImageURL)
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()
	a := Generate(5, 42)
	b := Generate(5, 42)
	require.Len(t, a, 5)
	assert.Equal(t, a, b)

	ids := make(map[string]struct{})
	for _, p := range a {
		require.NoError(t, validate(p))
		ids[p.ID] = struct{}{}
		assert.GreaterOrEqual(t, p.Likes, 0)
	}
	assert.Len(t, ids, 5)
}

func TestEncodeDecodeGenerated(t *testing.T) {
	t.Parallel()
	posts := Generate(4, 7)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, posts))
	assert.True(t, strings.HasPrefix(buf.String(), "posts:"))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, posts, got)
}

func TestDecode_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", "posts:\n  - author: {name: A}\n    content: hi\n"},
		{"missing author", "posts:\n  - id: '1'\n    content: hi\n"},
		{"missing content", "posts:\n  - id: '1'\n    author: {name: A}\n"},
		{"negative likes", "posts:\n  - id: '1'\n    author: {name: A}\n    content: hi\n    likes: -1\n"},
		{"duplicate id", "posts:\n  - {id: '1', author: {name: A}, content: hi}\n  - {id: '1', author: {name: B}, content: yo}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, models.HasCode(err, models.CodeValidation))
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()
	posts, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	posts, err := Load(&config.Config{SeedSource: config.SeedDefaults})
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	posts, err = Load(&config.Config{SeedSource: config.SeedGenerated, SeedCount: 2, SeedRandom: 1})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	path := filepath.Join(t.TempDir(), "posts.yml")
	doc := "posts:\n  - id: a\n    author:\n      name: Kim\n      username: kim\n    content: hello\n    timestamp: 1h\n    likes: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	posts, err = Load(&config.Config{SeedSource: path})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Kim", posts[0].Author.Name)
	assert.Equal(t, 3, posts[0].Likes)

	_, err = Load(&config.Config{SeedSource: filepath.Join(t.TempDir(), "missing.yml")})
	assert.Error(t, err)
}
