package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmidev/mapdesc/internal/cli/config"
	clitest "github.com/fmidev/mapdesc/internal/cli/testutil"
	"github.com/fmidev/mapdesc/internal/descriptor"
	"github.com/fmidev/mapdesc/internal/generator"
	"github.com/fmidev/mapdesc/internal/tables"
	"github.com/fmidev/mapdesc/internal/testutil"
)

func newTestContext(t *testing.T, dir string, tr *clitest.TestRenderer) *CommandContext {
	t.Helper()
	return &CommandContext{
		Cfg: &config.Config{
			TablesFile: filepath.Join(dir, "tables"),
			OutputDir:  dir,
		},
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
	}
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		cmd   func() *cobra.Command
		use   string
		flags []string
	}{
		{name: "generate", cmd: NewGenerateCommand, use: "generate", flags: []string{"strict", "create-dirs", "watch"}},
		{name: "plan", cmd: NewPlanCommand, use: "plan", flags: []string{"strict"}},
		{name: "check", cmd: NewCheckCommand, use: "check"},
		{name: "discover", cmd: NewDiscoverCommand, use: "discover", flags: []string{"stdout", "schema"}},
		{name: "schema", cmd: NewSchemaCommand, use: "schema"},
		{name: "doctor", cmd: NewDoctorCommand, use: "doctor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd()
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, cmd.Long, "Long should not be empty")
			assert.NotEmpty(t, cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestNewGenerateCommand_RunAlias(t *testing.T) {
	cmd := NewGenerateCommand()
	assert.Equal(t, []string{"run"}, cmd.Aliases)
}

func TestRunGenerate_Text(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.DefaultTables, "geo", "hydro")
	tr := clitest.NewTestRendererAuto()

	require.NoError(t, runGenerate(context.Background(), newTestContext(t, dir, tr)))

	roads := filepath.Join(dir, "geo", "roads.json")
	lakes := filepath.Join(dir, "hydro", "lakes.json")
	want := roads + ":\n{\n\t\"schema\": \"geo\",\n\t\"table\": \"roads_wgs84\"\n}\n\n" +
		roads + ":\n{\n\t\"schema\": \"geo\",\n\t\"table\": \"roads\"\n}\n\n" +
		lakes + ":\n{\n\t\"schema\": \"hydro\",\n\t\"table\": \"lakes_eureffin_fmi20\"\n}\n\n"
	assert.Equal(t, want, tr.Output())
	assert.Empty(t, tr.ErrorOutput())

	assert.Contains(t, clitest.ReadFile(t, dir, "geo/roads.json"), `"table": "roads"`)
	assert.Contains(t, clitest.ReadFile(t, dir, "hydro/lakes.json"), `"table": "lakes_eureffin_fmi20"`)
}

func TestRunGenerate_JSON(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.DefaultTables, "geo", "hydro")
	tr := clitest.NewTestRendererJSON()

	require.NoError(t, runGenerate(context.Background(), newTestContext(t, dir, tr)))

	var res generator.Result
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Written, 3)
	assert.Empty(t, res.Skipped)
	clitest.AssertNotContains(t, tr.Output(), "roads.json:\n")
}

func TestRunGenerate_SkippedRowsWarn(t *testing.T) {
	dir := clitest.SetupTestProject(t, "geo roads\nbroken\n", "geo")
	tr := clitest.NewTestRendererAuto()

	require.NoError(t, runGenerate(context.Background(), newTestContext(t, dir, tr)))

	clitest.AssertContains(t, tr.ErrorOutput(), "skipped line 2")
	clitest.AssertNoANSI(t, tr.ErrorOutput())
	assert.FileExists(t, filepath.Join(dir, "geo", "roads.json"))
}

func TestRunGenerate_StrictFails(t *testing.T) {
	dir := clitest.SetupTestProject(t, "geo a b c\ngeo roads\n", "geo")
	tr := clitest.NewTestRendererAuto()
	cc := newTestContext(t, dir, tr)
	cc.Cfg.Strict = true

	err := runGenerate(context.Background(), cc)
	require.Error(t, err)
	assert.ErrorIs(t, err, tables.ErrMalformedRow)
	assert.NoFileExists(t, filepath.Join(dir, "geo", "roads.json"))
}

func TestRunGenerate_MissingTables(t *testing.T) {
	dir := t.TempDir()
	tr := clitest.NewTestRendererAuto()

	err := runGenerate(context.Background(), newTestContext(t, dir, tr))
	require.Error(t, err)
	assert.Empty(t, tr.Output())
}

func TestRunPlan_Text(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.DefaultTables)
	tr := clitest.NewTestRendererAuto()

	require.NoError(t, runPlan(newTestContext(t, dir, tr)))

	out := tr.Output()
	clitest.AssertContains(t, out, filepath.Join(dir, "geo", "roads.json"))
	clitest.AssertContains(t, out, "overwrites line 1")
	clitest.AssertContains(t, out, "3 descriptor(s), 1 collision(s), 0 skipped")
	clitest.AssertNoANSI(t, out)
	assert.NoDirExists(t, filepath.Join(dir, "geo"))
}

func TestRunPlan_JSON(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.DefaultTables+"oops\n")
	tr := clitest.NewTestRendererJSON()

	require.NoError(t, runPlan(newTestContext(t, dir, tr)))

	var plan generator.Plan
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &plan))
	require.Len(t, plan.Entries, 3)
	assert.Equal(t, 1, plan.Collisions())
	assert.Equal(t, 1, plan.Entries[1].Overwrites)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, 4, plan.Skipped[0].Line)
}

func TestRunCheck(t *testing.T) {
	valid := "{\n\t\"schema\": \"geo\",\n\t\"table\": \"roads_wgs84\"\n}\n\n"

	tests := []struct {
		name      string
		files     map[string]string
		wantErr   bool
		wantOut   string
		wantFiles int
	}{
		{
			name:      "all valid",
			files:     map[string]string{"geo/roads.json": valid},
			wantOut:   "1 descriptor(s) checked",
			wantFiles: 1,
		},
		{
			name: "unknown key",
			files: map[string]string{
				"geo/roads.json": valid,
				"geo/bad.json":   `{"schema": "geo", "table": "t", "colour": "red"}`,
			},
			wantErr:   true,
			wantOut:   "colour",
			wantFiles: 2,
		},
		{
			name:      "schema mismatch is a warning",
			files:     map[string]string{"hydro/roads.json": valid},
			wantOut:   "does not match directory",
			wantFiles: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				clitest.WriteFile(t, dir, name, content)
			}
			tr := clitest.NewTestRendererAuto()

			err := runCheck(newTestContext(t, dir, tr))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			clitest.AssertContains(t, tr.Output(), tt.wantOut)
		})
	}
}

func TestRunCheck_JSON(t *testing.T) {
	dir := t.TempDir()
	clitest.WriteFile(t, dir, "geo/empty.json", `{"schema": "geo"}`)
	tr := clitest.NewTestRendererJSON()

	err := runCheck(newTestContext(t, dir, tr))
	require.Error(t, err)

	var report descriptor.Report
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &report))
	assert.Equal(t, 1, report.Files)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, descriptor.SeverityError, report.Findings[0].Severity)
}

func TestRunCheck_MissingOutputDir(t *testing.T) {
	tr := clitest.NewTestRendererAuto()
	err := runCheck(newTestContext(t, filepath.Join(t.TempDir(), "nope"), tr))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory does not exist")
}

type fakeSource struct {
	rows    []tables.Row
	err     error
	schemas []string
	closed  bool
}

func (f *fakeSource) Tables(_ context.Context, schemas []string) ([]tables.Row, error) {
	f.schemas = schemas
	return f.rows, f.err
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func stubCatalog(t *testing.T, src *fakeSource) {
	t.Helper()
	orig := openCatalog
	openCatalog = func(context.Context, *config.TargetConfig, *slog.Logger) (tableSource, error) {
		return src, nil
	}
	t.Cleanup(func() { openCatalog = orig })
}

func TestRunDiscover(t *testing.T) {
	rows := []tables.Row{
		{Line: 1, Schema: "geo", Table: "roads_wgs84"},
		{Line: 2, Schema: "hydro", Table: "lakes"},
	}

	t.Run("writes the table list", func(t *testing.T) {
		src := &fakeSource{rows: rows}
		stubCatalog(t, src)
		dir := t.TempDir()
		tr := clitest.NewTestRendererAuto()
		cc := newTestContext(t, dir, tr)
		cc.Cfg.Target = &config.TargetConfig{Database: "gis", Schemas: []string{"geo", "hydro"}}

		require.NoError(t, runDiscover(context.Background(), cc, &DiscoverOptions{}))

		assert.Equal(t, "geo roads_wgs84\nhydro lakes\n", clitest.ReadFile(t, dir, "tables"))
		assert.Equal(t, []string{"geo", "hydro"}, src.schemas)
		assert.True(t, src.closed)
		clitest.AssertContains(t, tr.Output(), "wrote 2 row(s)")
	})

	t.Run("stdout", func(t *testing.T) {
		stubCatalog(t, &fakeSource{rows: rows})
		dir := t.TempDir()
		tr := clitest.NewTestRendererAuto()
		cc := newTestContext(t, dir, tr)
		cc.Cfg.Target = &config.TargetConfig{Database: "gis"}

		require.NoError(t, runDiscover(context.Background(), cc, &DiscoverOptions{Stdout: true}))

		assert.Equal(t, "geo roads_wgs84\nhydro lakes\n", tr.Output())
		assert.NoFileExists(t, filepath.Join(dir, "tables"))
	})

	t.Run("stdout json", func(t *testing.T) {
		stubCatalog(t, &fakeSource{rows: rows})
		tr := clitest.NewTestRendererJSON()
		cc := newTestContext(t, t.TempDir(), tr)
		cc.Cfg.Target = &config.TargetConfig{Database: "gis"}

		require.NoError(t, runDiscover(context.Background(), cc, &DiscoverOptions{Stdout: true}))

		var got []tables.Row
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		assert.Equal(t, rows, got)
	})

	t.Run("empty result keeps the list", func(t *testing.T) {
		stubCatalog(t, &fakeSource{})
		dir := clitest.SetupTestProject(t, "geo roads\n")
		tr := clitest.NewTestRendererAuto()
		cc := newTestContext(t, dir, tr)
		cc.Cfg.Target = &config.TargetConfig{Database: "gis", Schemas: []string{"goe"}}

		err := runDiscover(context.Background(), cc, &DiscoverOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not overwriting")
		assert.Equal(t, "geo roads\n", clitest.ReadFile(t, dir, "tables"))
	})

	t.Run("empty result on stdout", func(t *testing.T) {
		stubCatalog(t, &fakeSource{})
		tr := clitest.NewTestRendererAuto()
		cc := newTestContext(t, t.TempDir(), tr)
		cc.Cfg.Target = &config.TargetConfig{Database: "gis"}

		require.NoError(t, runDiscover(context.Background(), cc, &DiscoverOptions{Stdout: true}))
		assert.Empty(t, tr.Output())
	})

	t.Run("query error", func(t *testing.T) {
		src := &fakeSource{err: errors.New("relation \"geometry_columns\" does not exist")}
		stubCatalog(t, src)
		tr := clitest.NewTestRendererAuto()
		cc := newTestContext(t, t.TempDir(), tr)
		cc.Cfg.Target = &config.TargetConfig{Database: "gis"}

		err := runDiscover(context.Background(), cc, &DiscoverOptions{})
		require.Error(t, err)
		assert.True(t, src.closed)
	})

	t.Run("no target", func(t *testing.T) {
		tr := clitest.NewTestRendererAuto()
		err := runDiscover(context.Background(), newTestContext(t, t.TempDir(), tr), &DiscoverOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target.database")
	})
}

func TestSchemaCommand(t *testing.T) {
	cmd := NewSchemaCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, descriptor.SchemaID, doc["$id"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "mindistance")
}

func TestGetConfig_EnvFallback(t *testing.T) {
	config.ResetConfig()
	t.Setenv("MAPDESC_TABLES_FILE", "lists/tables")
	t.Setenv("MAPDESC_STRICT", "true")

	cfg := getConfig()
	assert.Equal(t, "lists/tables", cfg.TablesFile)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.True(t, cfg.Strict)
	assert.NotEmpty(t, cfg.Suffixes)
}
