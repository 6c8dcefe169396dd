package generate

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-cloner/pkg/config"
	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

// fakeModel records calls and replays a canned response.
type fakeModel struct {
	calls    int
	response string
	err      error
}

func (f *fakeModel) GenerateText(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testAnalysis() *models.WebsiteAnalysis {
	return &models.WebsiteAnalysis{
		URL:   "https://example.com",
		Title: "Example",
		HTML:  `<html><head><script>var x = 1;</script></head><body><h1>Hi</h1></body></html>`,
		CSS:   "/* header */ body { color: red; }",
		JavaScript: "// init\nconsole.log('hi');",
		DetectedTechnology: models.TechnologyStack{Framework: "HTML/CSS/JS", Language: "JavaScript"},
	}
}

func newTestGenerator(t *testing.T, model TextGenerator) *Generator {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := config.ModelConfig{PromptTokenBudget: 8000, Temperature: 0.3, MaxOutputTokens: 8192}
	return NewGenerator(model, cfg, logrus.NewEntry(logger))
}

func TestModelBackedGenerationCallsModelExactlyOnce(t *testing.T) {
	model := &fakeModel{response: "```index.html\n<div>hi</div>\n```"}
	g := newTestGenerator(t, model)

	result, err := g.GenerateCode(context.Background(), testAnalysis(), models.FrameworkReact)
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "index.html", result.Files[0].Path)
	assert.Equal(t, "<div>hi</div>", result.Files[0].Content)
	assert.Equal(t, []string{"react", "react-dom", "react-scripts", "@types/react", "@types/react-dom"}, result.Dependencies)
	assert.Equal(t, []string{"npm install", "npm start"}, result.BuildCommands)
}

func TestStaticVariantNeverCallsModel(t *testing.T) {
	model := &fakeModel{response: "should never be used"}
	g := newTestGenerator(t, model)

	result, err := g.GenerateCode(context.Background(), testAnalysis(), models.FrameworkHTMLCSSJS)
	require.NoError(t, err)
	assert.Equal(t, 0, model.calls)

	require.Len(t, result.Files, 3)
	assert.Equal(t, "index.html", result.Files[0].Path)
	assert.Equal(t, "style.css", result.Files[1].Path)
	assert.Equal(t, "script.js", result.Files[2].Path)
	assert.Empty(t, result.Dependencies)
	assert.Empty(t, result.BuildCommands)
	assert.Equal(t, staticInstructions, result.Instructions)
}

func TestStaticVariantStripsScriptBlocks(t *testing.T) {
	g := newTestGenerator(t, &fakeModel{})

	result, err := g.GenerateCode(context.Background(), testAnalysis(), models.FrameworkHTMLCSSJS)
	require.NoError(t, err)

	html := result.Files[0].Content
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "var x = 1")
	assert.Contains(t, html, "<h1>Hi</h1>")

	assert.NotContains(t, result.Files[1].Content, "/* header */")
	assert.NotContains(t, result.Files[2].Content, "// init")
	assert.Contains(t, result.Files[2].Content, "console.log('hi');")
}

func TestUnsupportedFramework(t *testing.T) {
	g := newTestGenerator(t, &fakeModel{})
	_, err := g.GenerateCode(context.Background(), testAnalysis(), models.Framework("DJANGO"))
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrUnsupportedFramework)
}

func TestModelErrorPropagates(t *testing.T) {
	model := &fakeModel{err: utils.ErrModelInvocation}
	g := newTestGenerator(t, model)

	_, err := g.GenerateCode(context.Background(), testAnalysis(), models.FrameworkNextJS)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrModelInvocation)
}

func TestEmptyModelResponseDegradesToNoFiles(t *testing.T) {
	model := &fakeModel{response: "Sorry, I cannot help with that."}
	g := newTestGenerator(t, model)

	result, err := g.GenerateCode(context.Background(), testAnalysis(), models.FrameworkVue)
	require.NoError(t, err, "malformed output degrades, it never errors")
	assert.Empty(t, result.Files)
	assert.Equal(t, []string{"vue", "@vitejs/plugin-vue", "vite", "typescript"}, result.Dependencies)
}

func TestEveryFrameworkHasAHandler(t *testing.T) {
	g := newTestGenerator(t, &fakeModel{response: "```a.txt\nx\n```"})
	for _, fw := range models.AllFrameworks {
		_, err := g.GenerateCode(context.Background(), testAnalysis(), fw)
		assert.NoError(t, err, "framework %s should be dispatchable", fw)
	}
}

func TestModelErrorIsNotWrappedTwice(t *testing.T) {
	wrapped := errors.New("upstream exploded")
	model := &fakeModel{err: wrapped}
	g := newTestGenerator(t, model)

	_, err := g.GenerateCode(context.Background(), testAnalysis(), models.FrameworkPHP)
	assert.ErrorIs(t, err, wrapped)
}
