package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/persona/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a properties file pointing at a fresh SQLite database.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "persona.properties")
	content := fmt.Sprintf("db.url=%s\ndb.user=\ndb.password=\nlog.level=error\n", testdb.SQLiteURL(t))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes one command with a fresh command tree.
func run(t *testing.T, configPath string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func listJSON(t *testing.T, configPath string) []personView {
	t.Helper()
	out, _, err := run(t, configPath, "list", "--json")
	require.NoError(t, err)
	var views []personView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	return views
}

func TestCommands_Lifecycle(t *testing.T) {
	cfg := writeConfig(t)

	out, _, err := run(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	out, _, err = run(t, cfg, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	assert.Empty(t, listJSON(t, cfg))

	out, _, err = run(t, cfg, "add", "--first", "Ada", "--last", "Lovelace", "--birth", "1815-12-10", "--json")
	require.NoError(t, err)
	var added []personView
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	require.Len(t, added, 1)
	assert.EqualValues(t, 1, added[0].ID)

	_, _, err = run(t, cfg, "add", "--first", "Alan", "--last", "Turing", "--birth", "1912-06-23")
	require.NoError(t, err)

	views := listJSON(t, cfg)
	require.Len(t, views, 2)
	assert.Equal(t, personView{ID: 1, FirstName: "Ada", LastName: "Lovelace", BirthDate: "1815-12-10"}, views[0])
	assert.Equal(t, "Turing", views[1].LastName)

	out, _, err = run(t, cfg, "get", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Turing")

	_, stderr, err := run(t, cfg, "get", "1", "99")
	assert.ErrorIs(t, err, errOperationFailed)
	assert.Contains(t, stderr, "person 99 not found")

	_, _, err = run(t, cfg, "delete", "1")
	require.NoError(t, err)
	assert.Len(t, listJSON(t, cfg), 1)

	out, _, err = run(t, cfg, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All persons deleted")
	assert.Empty(t, listJSON(t, cfg))
}

func TestCommands_AddRejectsIncompleteForm(t *testing.T) {
	cfg := writeConfig(t)
	_, _, err := run(t, cfg, "migrate")
	require.NoError(t, err)

	_, stderr, err := run(t, cfg, "add", "--first", "Ada", "--birth", "1815-12-10")
	assert.ErrorIs(t, err, errOperationFailed)
	assert.Contains(t, stderr, "Fill in all fields")
	assert.Empty(t, listJSON(t, cfg))
}

func TestCommands_DeleteMissingReportsByID(t *testing.T) {
	cfg := writeConfig(t)
	_, _, err := run(t, cfg, "migrate")
	require.NoError(t, err)

	_, stderr, err := run(t, cfg, "delete", "42")
	assert.ErrorIs(t, err, errOperationFailed)
	assert.Contains(t, stderr, "Could not delete #42")
}

func TestCommands_MissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.properties")

	_, stderr, err := run(t, missing, "list")
	assert.ErrorIs(t, err, errOperationFailed)
	assert.Contains(t, stderr, "config_missing")
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "20"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 20}, ids)

	for _, bad := range []string{"x", "0", "-3"} {
		_, err := parseIDs([]string{bad})
		assert.Error(t, err, bad)
	}
}
