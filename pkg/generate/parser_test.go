package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleFile(t *testing.T) {
	files := ParseGeneratedFiles("```index.html\n<div>hi</div>\n```")
	require.Len(t, files, 1)
	assert.Equal(t, "index.html", files[0].Path)
	assert.Equal(t, "<div>hi</div>", files[0].Content)
	assert.Equal(t, "file", files[0].Type)
}

func TestParseMultipleFiles(t *testing.T) {
	response := "Here is your project:\n" +
		"```package.json\n{\"name\": \"app\"}\n```\n" +
		"Some prose between blocks.\n" +
		"```src/App.tsx\nexport default function App() {}\n```\n"

	files := ParseGeneratedFiles(response)
	require.Len(t, files, 2)
	assert.Equal(t, "package.json", files[0].Path)
	assert.Equal(t, "src/App.tsx", files[1].Path)
}

func TestParseLanguageWordBeforePath(t *testing.T) {
	files := ParseGeneratedFiles("```tsx src/App.tsx\nexport default null;\n```")
	require.Len(t, files, 1)
	assert.Equal(t, "src/App.tsx", files[0].Path)
}

func TestParsePathInFirstCommentLine(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantPath string
	}{
		{"line comment", "```tsx\n// src/App.tsx\nexport default null;\n```", "src/App.tsx"},
		{"html comment", "```html\n<!-- index.html -->\n<div></div>\n```", "index.html"},
		{"hash comment", "```yaml\n# config.yaml\nkey: value\n```", "config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := ParseGeneratedFiles(tt.response)
			require.Len(t, files, 1)
			assert.Equal(t, tt.wantPath, files[0].Path)
			assert.NotContains(t, files[0].Content, tt.wantPath, "path line is consumed, not kept as content")
		})
	}
}

func TestParseSkipsBlockWithNoPath(t *testing.T) {
	files := ParseGeneratedFiles("```javascript\nconsole.log('no path anywhere');\n```")
	assert.Empty(t, files)
}

func TestParseSkipsEmptyContent(t *testing.T) {
	files := ParseGeneratedFiles("```index.html\n\n   \n```")
	assert.Empty(t, files)
}

func TestParseDropsUnterminatedFence(t *testing.T) {
	response := "```good.txt\nkeep me\n```\n```bad.txt\nnever closed"
	files := ParseGeneratedFiles(response)
	require.Len(t, files, 1)
	assert.Equal(t, "good.txt", files[0].Path)
}

func TestParseKeepsDuplicatePaths(t *testing.T) {
	response := "```a.txt\nfirst\n```\n```a.txt\nsecond\n```"
	files := ParseGeneratedFiles(response)
	require.Len(t, files, 2)
	assert.Equal(t, "first", files[0].Content)
	assert.Equal(t, "second", files[1].Content)
}

func TestParseNoFences(t *testing.T) {
	assert.Empty(t, ParseGeneratedFiles("just prose, nothing else"))
	assert.Empty(t, ParseGeneratedFiles(""))
}

func TestParsePreservesMultilineContent(t *testing.T) {
	response := "```style.css\nbody {\n  color: red;\n}\n\n.nav {\n  display: flex;\n}\n```"
	files := ParseGeneratedFiles(response)
	require.Len(t, files, 1)
	assert.Equal(t, "body {\n  color: red;\n}\n\n.nav {\n  display: flex;\n}", files[0].Content)
}

func TestResolvePathRejectsBareLanguageWords(t *testing.T) {
	for _, word := range []string{"html", "tsx", "javascript", "php"} {
		path, _ := resolvePath(word, []string{"content"})
		assert.Empty(t, path, "bare language word %q must not become a path", word)
	}
}
