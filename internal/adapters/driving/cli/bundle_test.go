package cli

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

func TestCreateCmd(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "", "create", "/bundles/b1")

	require.NoError(t, err)
	assert.Contains(t, out, "Created bundle /bundles/b1")
	ok, err := afero.DirExists(memFs, "/bundles/b1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateCmd_Wipe(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	writeBundle(t, memFs, "/bundles/b1", map[string]string{"results.json": "{}"})

	_, err := runCommand(t, "", "create", "--wipe", "/bundles/b1")

	require.NoError(t, err)
	exists, err := afero.Exists(memFs, "/bundles/b1/results.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateCmd_WipeMissing(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "", "create", "--wipe", "/bundles/none")

	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestCreateCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "", "create")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestValidateCmd(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	writeBundle(t, memFs, "/bundles/b1", map[string]string{"results.json": `{"a":1}`})
	writeBundle(t, memFs, "/bundles/b2", map[string]string{"fulltext.pdf": "%PDF"})

	out, err := runCommand(t, "", "validate", "file:///bundles/b1")
	require.NoError(t, err)
	assert.Contains(t, out, "/bundles/b1 is a valid bundle")

	_, err = runCommand(t, "", "validate", "/bundles/b2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClassifyCmd(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	writeBundle(t, memFs, "/bundles/b1", map[string]string{
		"results.json": `{"a":1}`,
		"fulltext.pdf": "%PDF",
		"ah1234.cif":   "data_",
	})
	require.NoError(t, memFs.MkdirAll("/bundles/b1/svg", 0o755))

	out, err := runCommand(t, "", "classify", "/bundles/b1")

	require.NoError(t, err)
	assert.Contains(t, out, "Bundle /bundles/b1")
	assert.Contains(t, out, "results.json")
	assert.Contains(t, out, "ah1234.cif")
	assert.Contains(t, out, "svg")
	assert.Contains(t, out, "2 reserved files, 1 other files, 0 reserved dirs, 1 other dirs")
}

func TestClassifyCmd_JSON(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	writeBundle(t, memFs, "/bundles/b1", map[string]string{
		"results.json": `{"a":1}`,
		"notes.txt":    "x",
	})
	require.NoError(t, memFs.MkdirAll("/bundles/b1/results", 0o755))

	out, err := runCommand(t, "", "classify", "--json", "/bundles/b1")
	require.NoError(t, err)

	var got classificationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "/bundles/b1", got.Dir)
	assert.Equal(t, []string{"results.json"}, got.ReservedFiles)
	assert.Equal(t, []string{"notes.txt"}, got.NonReservedFiles)
	assert.Equal(t, []string{"results"}, got.ReservedDirs)
	assert.Empty(t, got.NonReservedDirs)
	assert.NotNil(t, got.NonReservedDirs)
}

func TestClassifyCmd_Missing(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "", "classify", "/bundles/none")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClassifyCmd_Empty(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, memFs.MkdirAll("/bundles/b1", 0o755))

	out, err := runCommand(t, "", "classify", "/bundles/b1")

	require.NoError(t, err)
	assert.Contains(t, out, "is empty")
}

func TestResolveCmd(t *testing.T) {
	out, err := runCommand(t, "", "resolve", "paper.pdf", "article.XML", "data.csv", "thesis.docx")

	require.NoError(t, err)
	assert.Contains(t, out, "paper.pdf -> fulltext.pdf")
	assert.Contains(t, out, "article.XML -> (none)")
	assert.Contains(t, out, "data.csv -> (none)")
	assert.Contains(t, out, "thesis.docx -> fulltext.docx")
}

func TestResolveCmd_LoneReservedName(t *testing.T) {
	out, err := runCommand(t, "", "resolve", domain.FulltextPDF)

	require.NoError(t, err)
	assert.Contains(t, out, "fulltext.pdf is already a reserved name")
	assert.NotContains(t, out, "->")

	out, err = runCommand(t, "", "resolve", domain.FulltextPDF, "paper.xml")

	require.NoError(t, err)
	assert.Contains(t, out, "fulltext.pdf -> fulltext.pdf")
	assert.Contains(t, out, "paper.xml -> fulltext.xml")
}

func TestReservedCmd(t *testing.T) {
	out, err := runCommand(t, "", "reserved")

	require.NoError(t, err)
	for _, name := range domain.ReservedFileNames() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, ".docx")
	assert.Contains(t, out, "results")
	assert.Contains(t, out, "pdf")
}

func TestCheckCmd(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	writeBundle(t, memFs, "/in/clean", map[string]string{"paper.pdf": "x"})
	writeBundle(t, memFs, "/in/dirty", map[string]string{"paper.pdf": "x", "fulltext.html": "<html/>"})

	out, err := runCommand(t, "", "check", "/in/clean")
	require.NoError(t, err)
	assert.Contains(t, out, "No reserved file names in /in/clean")

	out, err = runCommand(t, "", "check", "/in/missing")
	require.NoError(t, err)
	assert.Contains(t, out, "No reserved file names")

	out, err = runCommand(t, "", "check", "/in/dirty")
	require.NoError(t, err)
	assert.Contains(t, out, "contains reserved file names")
	assert.Contains(t, out, "fulltext.html")
	assert.NotContains(t, out, "paper.pdf")
}

func TestSummaryCmd(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	writeBundle(t, memFs, "/bundles/b1", map[string]string{"results.json": "{}", "paper.pdf": "x"})

	out, err := runCommand(t, "", "summary", "--text", "/bundles/b1")
	require.NoError(t, err)
	assert.Equal(t, "dir: /bundles/b1\n/bundles/b1/results.json\n", out)

	out, err = runCommand(t, "", "summary", "/bundles/b1")
	require.NoError(t, err)
	assert.Contains(t, out, "<bundle>")
	assert.Contains(t, out, "/bundles/b1/results.json")
	assert.Contains(t, out, "</bundle>")
}

func TestLsCmd(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	writeBundle(t, memFs, "/bundles/b1", map[string]string{"results.json": "{}"})
	writeBundle(t, memFs, "/bundles/b1/svg", map[string]string{"page1.svg": "<svg/>"})

	out, err := runCommand(t, "", "ls", "/bundles/b1")
	require.NoError(t, err)
	assert.Contains(t, out, "/bundles/b1/results.json")
	assert.NotContains(t, out, "page1.svg")

	out, err = runCommand(t, "", "ls", "-r", "/bundles/b1")
	require.NoError(t, err)
	assert.Contains(t, out, "/bundles/b1/svg/page1.svg")
}

func TestLsCmd_Empty(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, memFs.MkdirAll("/bundles/b1", 0o755))

	out, err := runCommand(t, "", "ls", "/bundles/b1")

	require.NoError(t, err)
	assert.Contains(t, out, "No files in /bundles/b1")
}
