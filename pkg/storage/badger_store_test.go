package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	store, err := NewBadgerStore(ctx, t.TempDir(), logrus.NewEntry(logger))
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = store.Close()
	})
	return store
}

func newTestProject(id string) *models.Project {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Project{
		ID:          id,
		Name:        "Example Site",
		OriginalURL: "https://example.com",
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProjectRoundTrip(t *testing.T) {
	store := newTestStore(t)
	p := newTestProject("p1")

	require.NoError(t, store.CreateProject(p))

	got, err := store.GetProject("p1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.OriginalURL, got.OriginalURL)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestGetProjectNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetProject("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrProjectNotFound)
}

func TestUpdateProjectStatus(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateProject(newTestProject("p1")))

	before, err := store.GetProject("p1")
	require.NoError(t, err)

	store.now = func() time.Time { return before.UpdatedAt.Add(time.Minute) }
	require.NoError(t, store.UpdateProjectStatus("p1", models.StatusAnalyzing))

	after, err := store.GetProject("p1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAnalyzing, after.Status)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestUpdateStatusOnMissingProject(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateProjectStatus("ghost", models.StatusFailed)
	assert.ErrorIs(t, err, utils.ErrProjectNotFound)
}

func TestSaveAnalysisTruncatesExtractedContent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateProject(newTestProject("p1")))

	analysis := &models.WebsiteAnalysis{
		HTML:        strings.Repeat("a", maxExtractedFieldLen+500),
		CSS:         "body { color: red; }",
		JavaScript:  strings.Repeat("b", maxExtractedFieldLen+1),
		Screenshots: []string{"data:image/png;base64,AAAA"},
		DetectedTechnology: models.TechnologyStack{
			Framework: "React", Language: "JavaScript",
		},
	}
	require.NoError(t, store.SaveAnalysis("p1", analysis))

	got, err := store.GetProject("p1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAnalyzed, got.Status)
	assert.Len(t, got.ExtractedHTML, maxExtractedFieldLen)
	assert.Equal(t, "body { color: red; }", got.ExtractedCSS)
	assert.Len(t, got.ExtractedJS, maxExtractedFieldLen)
	assert.Equal(t, []string{"data:image/png;base64,AAAA"}, got.Screenshots)
	assert.Contains(t, got.DetectedTechnology, `"framework":"React"`)
}

func TestTruncateFieldBacksUpToRuneBoundary(t *testing.T) {
	// A multi-byte rune straddles the cap; truncation must not split it.
	s := strings.Repeat("a", maxExtractedFieldLen-1) + "世界"
	got := truncateField(s)
	assert.Equal(t, strings.Repeat("a", maxExtractedFieldLen-1), got)
	assert.True(t, utf8.ValidString(got))

	ascii := strings.Repeat("x", maxExtractedFieldLen+10)
	assert.Len(t, truncateField(ascii), maxExtractedFieldLen)

	short := "short"
	assert.Equal(t, short, truncateField(short))
}

func TestListProjectsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := newTestProject("older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newTestProject("newer")

	require.NoError(t, store.CreateProject(older))
	require.NoError(t, store.CreateProject(newer))

	projects, err := store.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "newer", projects[0].ID)
	assert.Equal(t, "older", projects[1].ID)
}

func TestVersionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	v := &models.GeneratedVersion{
		ID:        "v1",
		ProjectID: "p1",
		Framework: models.FrameworkReact,
		Status:    models.VersionCompleted,
		Files: []models.GeneratedFile{
			{Path: "src/App.tsx", Content: "export default null;", Type: "file"},
		},
		BuildSize:   64,
		GeneratedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.SaveVersion(v))

	got, err := store.GetVersion("p1", models.FrameworkReact)
	require.NoError(t, err)
	assert.Equal(t, models.VersionCompleted, got.Status)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "src/App.tsx", got.Files[0].Path)
}

func TestGetVersionNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetVersion("p1", models.FrameworkVue)
	assert.ErrorIs(t, err, utils.ErrVersionNotFound)
}

func TestSaveVersionOverwrites(t *testing.T) {
	store := newTestStore(t)

	first := &models.GeneratedVersion{ID: "v1", ProjectID: "p1", Framework: models.FrameworkPHP, Status: models.VersionFailed}
	second := &models.GeneratedVersion{ID: "v2", ProjectID: "p1", Framework: models.FrameworkPHP, Status: models.VersionCompleted}
	require.NoError(t, store.SaveVersion(first))
	require.NoError(t, store.SaveVersion(second))

	got, err := store.GetVersion("p1", models.FrameworkPHP)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.ID)
	assert.Equal(t, models.VersionCompleted, got.Status)
}

func TestListVersionsScopedToProject(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveVersion(&models.GeneratedVersion{ID: "a", ProjectID: "p1", Framework: models.FrameworkReact}))
	require.NoError(t, store.SaveVersion(&models.GeneratedVersion{ID: "b", ProjectID: "p1", Framework: models.FrameworkHTMLCSSJS}))
	require.NoError(t, store.SaveVersion(&models.GeneratedVersion{ID: "c", ProjectID: "p2", Framework: models.FrameworkReact}))

	versions, err := store.ListVersions("p1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	for _, v := range versions {
		assert.Equal(t, "p1", v.ProjectID)
	}
}
