package scaffold

import (
	"context"
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/projectkit/projectkit/internal/manifest"
	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/projectkit/projectkit/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iconPath = "MyProject/Assets.xcassets/AppIcon.appiconset/AppIcon.png"

func iosStore(t *testing.T) templates.Store {
	t.Helper()
	s, err := templates.OpenBuiltin("ios-app")
	require.NoError(t, err)
	return s
}

func resolveIOS(t *testing.T, values map[string]string) *placeholder.Resolved {
	t.Helper()
	r, err := placeholder.Resolve(placeholder.DefaultSet(), values, placeholder.Options{BundlePrefix: "com.example"})
	require.NoError(t, err)
	return r
}

func createIOS(t *testing.T, outDir string, values map[string]string) (*Result, error) {
	t.Helper()
	return Create(context.Background(), iosStore(t), Request{
		OutputDir:    outDir,
		Values:       values,
		BundlePrefix: "com.example",
		CLIVersion:   "1.0.0",
	})
}

func TestCreate_AcmeLayout(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "Acme")

	result, err := createIOS(t, outDir, map[string]string{placeholder.ProjectName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "ios-app", result.Template)
	assert.Equal(t, outDir, result.OutputDir)

	assertDir(t, outDir, "Acme.xcworkspace")
	assertDir(t, outDir, "Acme.xcodeproj")
	assertDir(t, outDir, "AcmeUITests")
	assertDir(t, outDir, "AcmePackage/Sources/AcmeFeature")
	assertDir(t, outDir, "AcmePackage/Tests/AcmeFeatureTests")
	assertMissing(t, outDir, "MyProject")
	assertMissing(t, outDir, "MyProject/MyProjectApp.swift")
	assertMissing(t, outDir, "template.yaml")

	app := readGenerated(t, outDir, "Acme/AcmeApp.swift")
	assert.Contains(t, app, "struct AcmeApp: App")
	assert.Contains(t, app, "import AcmeFeature")

	xcconfig := readGenerated(t, outDir, "Config/Shared.xcconfig")
	assert.Contains(t, xcconfig, "PRODUCT_BUNDLE_IDENTIFIER = com.example.Acme\n")
	assert.Contains(t, xcconfig, "CODE_SIGN_ENTITLEMENTS = Config/Acme.entitlements")

	pbx := readGenerated(t, outDir, "Acme.xcodeproj/project.pbxproj")
	assert.Contains(t, pbx, "PRODUCT_BUNDLE_IDENTIFIER = com.example.AcmeUITests;")
	assert.Contains(t, pbx, "productName = AcmeFeature;")

	workspace := readGenerated(t, outDir, "Acme.xcworkspace/contents.xcworkspacedata")
	assert.Contains(t, workspace, `location = "group:Acme.xcodeproj"`)

	assert.Contains(t, result.Files, "Acme/AcmeApp.swift")
	assert.Contains(t, result.Files, ".gitignore")
	assert.Equal(t, 1, result.Binary)
	assert.Positive(t, result.Substituted)
	assert.Positive(t, result.Replacements["MyProject"])
	assert.Positive(t, result.Replacements["com.example.MyProject"])
	assert.Positive(t, result.Replacements["MyProjectFeature"])
}

func TestCreate_NoResidualTokens(t *testing.T) {
	tests := []map[string]string{
		{placeholder.ProjectName: "Acme"},
		{placeholder.ProjectName: "Zed", placeholder.BundleIdentifier: "dev.zed.ios", placeholder.FeatureModuleName: "ZedCore"},
		{placeholder.ProjectName: "My_App"},
	}

	for _, values := range tests {
		t.Run(values[placeholder.ProjectName], func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "out")
			_, err := createIOS(t, outDir, values)
			require.NoError(t, err)

			hits, err := Residual(outDir, resolveIOS(t, values), nil)
			require.NoError(t, err)
			assert.Empty(t, hits)
		})
	}
}

func TestCreate_BinaryPreserved(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "Acme")
	_, err := createIOS(t, outDir, map[string]string{placeholder.ProjectName: "Acme"})
	require.NoError(t, err)

	entries, err := iosStore(t).ListEntries()
	require.NoError(t, err)
	var original []byte
	for _, e := range entries {
		if e.Path == iconPath {
			original = e.Content
		}
	}
	require.NotEmpty(t, original)

	written, err := os.ReadFile(filepath.Join(outDir, "Acme/Assets.xcassets/AppIcon.appiconset/AppIcon.png"))
	require.NoError(t, err)
	assert.Equal(t, sha256.Sum256(original), sha256.Sum256(written))
	assert.Contains(t, string(written), "MyProject", "binary content is never substituted")
}

func TestCreate_ExecutablePreserved(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no permission bits on windows")
	}
	outDir := filepath.Join(t.TempDir(), "Acme")
	_, err := createIOS(t, outDir, map[string]string{placeholder.ProjectName: "Acme"})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(outDir, "scripts", "bootstrap.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(outDir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestCreate_EmptyProjectNameWritesNothing(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "never")

	_, err := createIOS(t, outDir, map[string]string{placeholder.ProjectName: ""})
	var ve *placeholder.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, placeholder.ProjectName, ve.Placeholder)

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
}

func TestCreate_MalformedBundleIdentifier(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "never")

	_, err := createIOS(t, outDir, map[string]string{
		placeholder.ProjectName:      "Acme",
		placeholder.BundleIdentifier: "com.acme.my app",
	})
	var ve *placeholder.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, placeholder.BundleIdentifier, ve.Placeholder)
	assert.Contains(t, err.Error(), "BundleIdentifier")

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreate_DefaultBundlePrefix(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "Acme")

	result, err := Create(context.Background(), iosStore(t), Request{
		OutputDir: outDir,
		Values:    map[string]string{placeholder.ProjectName: "Acme"},
	})
	require.NoError(t, err)
	assert.Equal(t, "com.example.Acme", result.Resolved.Value(placeholder.BundleIdentifier))
	assert.Contains(t, readGenerated(t, outDir, "Config/Shared.xcconfig"), "PRODUCT_BUNDLE_IDENTIFIER = com.example.Acme\n")
}

func TestCreate_MissingOutputDir(t *testing.T) {
	_, err := Create(context.Background(), iosStore(t), Request{Values: map[string]string{placeholder.ProjectName: "Acme"}})
	var ve *placeholder.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "OutputDir", ve.Placeholder)
}

func TestCreate_TwoOutputsIndependent(t *testing.T) {
	base := t.TempDir()
	outA := filepath.Join(base, "a")
	outB := filepath.Join(base, "b")

	_, err := createIOS(t, outA, map[string]string{placeholder.ProjectName: "Alpha"})
	require.NoError(t, err)
	_, err = createIOS(t, outB, map[string]string{placeholder.ProjectName: "Beta"})
	require.NoError(t, err)

	assertDir(t, outA, "Alpha.xcworkspace")
	assertMissing(t, outA, "Beta.xcworkspace")
	assertDir(t, outB, "Beta.xcworkspace")
	assertMissing(t, outB, "Alpha.xcworkspace")

	assert.Contains(t, readGenerated(t, outA, "README.md"), "# Alpha")
	assert.Contains(t, readGenerated(t, outB, "README.md"), "# Beta")
}

func TestCreate_DryRunWritesNothing(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "Acme")

	result, err := Create(context.Background(), iosStore(t), Request{
		OutputDir:    outDir,
		Values:       map[string]string{placeholder.ProjectName: "Acme"},
		BundlePrefix: "com.example",
		DryRun:       true,
	})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Contains(t, result.Files, "Acme/AcmeApp.swift")
	assert.Equal(t, 1, result.Binary)

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreate_TemplateTooNew(t *testing.T) {
	fsys := fstest.MapFS{
		"t/template.yaml": {Data: []byte("name: t\nversion: 1.0.0\nmin_cli_version: 5.0.0\nplaceholders:\n  - name: ProjectName\n    token: MyProject\n")},
		"t/MyProject.txt": {Data: []byte("MyProject")},
	}
	outDir := filepath.Join(t.TempDir(), "out")
	_, err := Create(context.Background(), templates.NewFSStore("t", fsys, "t"), Request{
		OutputDir:  outDir,
		Values:     map[string]string{"ProjectName": "Acme"},
		CLIVersion: "1.2.0",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires CLI version")
}

func TestCreate_TemplateNotFound(t *testing.T) {
	store := templates.NewDirStore(filepath.Join(t.TempDir(), "missing"))
	_, err := Create(context.Background(), store, Request{
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Values:    map[string]string{placeholder.ProjectName: "Acme"},
	})
	var nf *templates.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestGenerate_NonEmptyOutputDir(t *testing.T) {
	outDir := t.TempDir()
	existing := filepath.Join(outDir, "keep.txt")
	require.NoError(t, os.WriteFile(existing, []byte("hello"), 0644))

	_, err := Generate(context.Background(), iosStore(t), resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}), outDir)
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.False(t, we.Partial)
	assert.Contains(t, err.Error(), "not empty")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerate_EmptyExistingOutputDir(t *testing.T) {
	outDir := t.TempDir()
	_, err := Generate(context.Background(), iosStore(t), resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}), outDir)
	require.NoError(t, err)
	assertDir(t, outDir, "Acme.xcworkspace")
}

func TestGenerate_OutputIsFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(outPath, nil, 0644))

	_, err := Generate(context.Background(), iosStore(t), resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}), outPath)
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.False(t, we.Partial)
}

func TestGenerate_Cancelled(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, iosStore(t), resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}), outDir)
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.True(t, we.Partial)
	assert.Equal(t, outDir, we.OutputDir)
	assert.True(t, errors.Is(err, context.Canceled))

	require.NoError(t, RemovePartial(err))
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

// fakeStore serves a fixed entry list.
type fakeStore struct {
	entries []templates.Entry
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) Manifest() (*manifest.TemplateManifest, error) { return nil, nil }

func (f *fakeStore) ListEntries() ([]templates.Entry, error) { return f.entries, nil }

func TestGenerate_WriteFailureReportsPartialOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("NUL in file names is rejected differently on windows")
	}
	store := &fakeStore{entries: []templates.Entry{
		{Path: "MyProject.txt", Content: []byte("MyProject"), Mode: 0644},
		{Path: "bad\x00name.txt", Content: []byte("x"), Mode: 0644},
		{Path: "never.txt", Content: []byte("x"), Mode: 0644},
	}}
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := Generate(context.Background(), store, resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}), outDir)
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.True(t, we.Partial)
	assert.Equal(t, outDir, we.OutputDir)
	assert.Contains(t, err.Error(), "partial output left at "+outDir)

	assert.Equal(t, "Acme", readGenerated(t, outDir, "Acme.txt"))
	assertMissing(t, outDir, "never.txt")
}

func TestPlan_Collision(t *testing.T) {
	fsys := fstest.MapFS{
		"t/MyProject.txt": {Data: []byte("a")},
		"t/Acme.txt":      {Data: []byte("b")},
	}
	_, err := Plan(templates.NewFSStore("t", fsys, "t"), resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPathCollision))
}

func TestPlan_OrderFollowsStore(t *testing.T) {
	fsys := fstest.MapFS{
		"t/MyProject/b.txt": {Data: []byte("b")},
		"t/MyProject/a.txt": {Data: []byte("a")},
		"t/README.md":       {Data: []byte("MyProject")},
	}
	planned, err := Plan(templates.NewFSStore("t", fsys, "t"), resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}))
	require.NoError(t, err)

	var got []string
	for _, p := range planned {
		got = append(got, p.OutputPath)
	}
	assert.Equal(t, []string{"Acme", "Acme/a.txt", "Acme/b.txt", "README.md"}, got)
}

func TestRemovePartial_IgnoresOtherErrors(t *testing.T) {
	assert.NoError(t, RemovePartial(errors.New("boom")))
	assert.NoError(t, RemovePartial(&WriteError{OutputDir: t.TempDir(), Partial: false}))
}

func TestResidual_FindsLeftovers(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "MyProjectUITests"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "a.swift"), []byte("import MyProjectFeature"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "icon.png"), []byte("MyProject"), 0644))

	hits, err := Residual(outDir, resolveIOS(t, map[string]string{placeholder.ProjectName: "Acme"}), nil)
	require.NoError(t, err)

	assert.Contains(t, hits, ResidualHit{Path: "MyProjectUITests", Token: "MyProject", InName: true})
	assert.Contains(t, hits, ResidualHit{Path: "a.swift", Token: "MyProjectFeature"})
	assert.Contains(t, hits, ResidualHit{Path: "a.swift", Token: "MyProject"})
	for _, h := range hits {
		assert.NotEqual(t, "icon.png", h.Path)
	}
}

func TestResidual_TokenInsideValueIgnored(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	values := map[string]string{placeholder.ProjectName: "MyProjectPro"}
	_, err := createIOS(t, outDir, values)
	require.NoError(t, err)

	hits, err := Residual(outDir, resolveIOS(t, values), nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assertDir(t, outDir, "MyProjectPro.xcworkspace")
}

func TestResidual_SkipsManifestBinaryExtensions(t *testing.T) {
	fsys := fstest.MapFS{
		"t/template.yaml": {Data: []byte("name: t\nversion: 1.0.0\nplaceholders:\n  - name: ProjectName\n    token: MyProject\n    format: identifier\nbinary_extensions: [.blob]\n")},
		"t/README.md":     {Data: []byte("# MyProject\n")},
		"t/data.blob":     {Data: []byte("opaque MyProject payload")},
	}
	store := templates.NewFSStore("t", fsys, "t")
	outDir := filepath.Join(t.TempDir(), "out")

	result, err := Create(context.Background(), store, Request{
		OutputDir: outDir,
		Values:    map[string]string{"ProjectName": "Acme"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Binary)
	assert.Equal(t, "opaque MyProject payload", readGenerated(t, outDir, "data.blob"))

	hits, err := Residual(outDir, result.Resolved, []string{".blob"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = Residual(outDir, result.Resolved, nil)
	require.NoError(t, err)
	assert.Equal(t, []ResidualHit{{Path: "data.blob", Token: "MyProject"}}, hits)
}

// ─── Test Helpers ──────────────────────────────────────────────────

func readGenerated(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err, "reading %s", rel)
	return string(data)
}

func assertDir(t *testing.T, dir, rel string) {
	t.Helper()
	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	if assert.NoError(t, err, "expected %s to exist", rel) {
		assert.True(t, info.IsDir(), "%s should be a directory", rel)
	}
}

func assertMissing(t *testing.T, dir, rel string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err), "%s should not exist", rel)
}
