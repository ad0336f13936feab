// SPDX-License-Identifier: MPL-2.0

package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/qilletni/toolchain/internal/index"
	"github.com/qilletni/toolchain/internal/issue"
	"github.com/qilletni/toolchain/internal/testutil"
	"github.com/qilletni/toolchain/pkg/native"
	"github.com/qilletni/toolchain/pkg/qlerr"
	"github.com/qilletni/toolchain/pkg/qll"
)

func packageNames(pkgs []*qll.Metadata) []string {
	out := make([]string, 0, len(pkgs))
	for _, m := range pkgs {
		out = append(out, m.Name+"@"+m.Version.String())
	}
	return out
}

func writeProject(t *testing.T, root, descriptor string, sources map[string]string) {
	t.Helper()
	files := map[string]string{"qilletni-src/qilletni_info.yml": descriptor}
	for rel, text := range sources {
		files["qilletni-src/"+rel] = text
	}
	testutil.WriteTree(t, root, files)
}

func TestPrepare_LoadsStagesAndValidates(t *testing.T) {
	t.Parallel()

	deps := t.TempDir()
	testutil.WriteArchive(t, deps, testutil.Archive{
		Name:    "std",
		Version: "1.2.0",
		Sources: map[string]string{"std.ql": "fun print(x) {}"},
	})
	testutil.WriteArchive(t, deps, testutil.Archive{
		Name:               "spotify",
		Version:            "0.3.0",
		Dependencies:       []string{"std:^1.0.0"},
		Sources:            map[string]string{"spotify.ql": "native fun play()"},
		Classes:            []string{"is.yarr.spotify.SpotifyLibrary", "is.yarr.spotify.Player"},
		NativeLibraryClass: "is.yarr.spotify.SpotifyLibrary",
	})

	staging := t.TempDir()
	s, err := Prepare(t.Context(), PrepareOptions{
		DependencyDir: deps,
		StagingParent: staging,
		Logger:        testutil.DiscardLogger(),
	})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}

	if diff := cmp.Diff([]string{"spotify@0.3.0", "std@1.2.0"}, packageNames(s.Packages)); diff != "" {
		t.Errorf("packages (-want +got):\n%s", diff)
	}
	if !s.Report.OK() {
		t.Errorf("report should be satisfied: %+v", s.Report.Unmet())
	}
	if text, ok := s.Registry.Resolve("std", "std.ql"); !ok || text != "fun print(x) {}" {
		t.Errorf("Resolve(std, std.ql) = %q, %v", text, ok)
	}

	unit, err := s.Natives.Resolve("is.yarr.spotify.SpotifyLibrary")
	if err != nil {
		t.Fatalf("Resolve native library: %v", err)
	}
	if unit.Kind != native.KindLibrary || unit.Package != "spotify" {
		t.Errorf("unit = %+v", unit)
	}
	if _, err := s.Natives.Resolve("is.yarr.spotify.Player"); err != nil {
		t.Errorf("class from jar not resolvable: %v", err)
	}

	if filepath.Dir(s.StagingDir) != staging {
		t.Errorf("staging dir %q not under %q", s.StagingDir, staging)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.StagingDir); !os.IsNotExist(err) {
		t.Errorf("staging dir should be removed, stat err = %v", err)
	}
}

func TestPrepare_UnmetDependenciesDoNotAbort(t *testing.T) {
	t.Parallel()

	deps := t.TempDir()
	testutil.WriteArchive(t, deps, testutil.Archive{Name: "a", Version: "1.0.0", Dependencies: []string{"b:^1.0.0", "c:1.0.0"}})
	testutil.WriteArchive(t, deps, testutil.Archive{Name: "b", Version: "2.0.0"})

	s, err := Prepare(t.Context(), PrepareOptions{DependencyDir: deps, StagingParent: t.TempDir(), Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	defer s.Close()

	if s.Report.OK() {
		t.Fatal("report should not be satisfied")
	}
	if len(s.Packages) != 2 {
		t.Errorf("all packages should be loaded, got %v", packageNames(s.Packages))
	}
	unmet := s.Report.Unmet()
	if len(unmet) != 2 {
		t.Fatalf("unmet = %+v", unmet)
	}
	if unmet[1].FoundString() != "not found" {
		t.Errorf("c should be reported as not found, got %q", unmet[1].FoundString())
	}
}

func TestPrepare_DuplicateNames(t *testing.T) {
	t.Parallel()

	deps := t.TempDir()
	testutil.WriteArchive(t, deps, testutil.Archive{
		Name:    "b",
		Version: "1.0.0",
		Sources: map[string]string{"b.ql": "first"},
		Classes: []string{"b.First"},
	})
	testutil.WriteArchive(t, deps, testutil.Archive{
		Name:         "b",
		Version:      "2.0.0",
		Dependencies: []string{"missing:^1.0.0"},
		Sources:      map[string]string{"b.ql": "second"},
		Classes:      []string{"b.Second"},
	})

	var buf bytes.Buffer
	s, err := Prepare(t.Context(), PrepareOptions{DependencyDir: deps, StagingParent: t.TempDir(), Logger: log.New(&buf)})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	defer s.Close()

	if diff := cmp.Diff([]string{"b@1.0.0", "b@2.0.0"}, packageNames(s.Packages)); diff != "" {
		t.Errorf("packages (-want +got):\n%s", diff)
	}
	if text, _ := s.Registry.Resolve("b", "b.ql"); text != "first" {
		t.Errorf("Resolve(b, b.ql) = %q, want the first archive's source", text)
	}
	if !strings.Contains(buf.String(), "already registered") {
		t.Errorf("expected a duplicate warning, got:\n%s", buf.String())
	}

	unmet := s.Report.Unmet()
	if len(unmet) != 1 {
		t.Fatalf("unmet = %+v, want the second archive's dependency", unmet)
	}
	if unmet[0].Package != "b" || unmet[0].Dependency != "missing" || unmet[0].Found != nil {
		t.Errorf("unmet[0] = %+v", unmet[0])
	}

	for _, sym := range []string{"b.First", "b.Second"} {
		if _, err := s.Natives.Resolve(sym); err != nil {
			t.Errorf("Resolve(%s) error = %v, every archive's native should be staged", sym, err)
		}
	}
}

func TestPrepare_LocalLibraryShadowsArchive(t *testing.T) {
	t.Parallel()

	deps := t.TempDir()
	testutil.WriteArchive(t, deps, testutil.Archive{
		Name:    "demo",
		Version: "0.9.0",
		Sources: map[string]string{"main.ql": "archived"},
		Classes: []string{"demo.Old"},
	})

	project := t.TempDir()
	writeProject(t, project, "name: demo\nversion: 1.0.0\nauthor: me\nnative_library: demo.Lib\n",
		map[string]string{"main.ql": "local"})
	jar := filepath.Join(project, "build", "demo.jar")
	testutil.WriteJar(t, jar, "demo.Lib")

	var buf bytes.Buffer
	s, err := Prepare(t.Context(), PrepareOptions{
		DependencyDir: deps,
		LocalLibrary:  project,
		LocalNative:   jar,
		StagingParent: t.TempDir(),
		Logger:        log.New(&buf),
	})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	defer s.Close()

	if diff := cmp.Diff([]string{"demo@1.0.0"}, packageNames(s.Packages)); diff != "" {
		t.Errorf("packages (-want +got):\n%s", diff)
	}
	if text, _ := s.Registry.Resolve("demo", "main.ql"); text != "local" {
		t.Errorf("Resolve(demo, main.ql) = %q, want the local source", text)
	}
	if _, err := s.Natives.Resolve("demo.Old"); !errors.Is(err, native.ErrSymbolNotFound) {
		t.Errorf("archived native should not be staged, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.StagingDir, "demo-1.0.0.jar")); err != nil {
		t.Errorf("local native not staged: %v", err)
	}
	if !strings.Contains(buf.String(), "shadows") {
		t.Errorf("expected a shadowing log line, got:\n%s", buf.String())
	}
}

func TestPrepare_BrokenArchiveAborts(t *testing.T) {
	t.Parallel()

	deps := t.TempDir()
	testutil.WriteArchive(t, deps, testutil.Archive{Name: "good", Version: "1.0.0"})
	testutil.WriteTree(t, deps, map[string]string{"zz-broken.qll": "garbage"})
	staging := t.TempDir()

	_, err := Prepare(t.Context(), PrepareOptions{DependencyDir: deps, StagingParent: staging, Logger: testutil.DiscardLogger()})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, qlerr.ErrIO) {
		t.Errorf("error should be an IO error, got %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Operation != "load package" {
		t.Errorf("error should carry the load operation, got %#v", err)
	}

	left, _ := os.ReadDir(staging)
	if len(left) != 0 {
		t.Errorf("staging directory should be cleaned up, found %d entries", len(left))
	}
}

func TestPrepare_StagingParentUnusable(t *testing.T) {
	t.Parallel()

	parent := filepath.Join(t.TempDir(), "file")
	testutil.WriteTree(t, filepath.Dir(parent), map[string]string{"file": "not a directory"})

	_, err := Prepare(t.Context(), PrepareOptions{StagingParent: parent, Logger: testutil.DiscardLogger()})
	if !errors.Is(err, qlerr.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
	if got := issue.ForError(err); got != issue.FileAccessFailedId {
		t.Errorf("ForError() = %d, want FileAccessFailedId", got)
	}
}

func TestPrepare_MissingDependencyDir(t *testing.T) {
	t.Parallel()

	s, err := Prepare(t.Context(), PrepareOptions{
		DependencyDir: filepath.Join(t.TempDir(), "none"),
		StagingParent: t.TempDir(),
		Logger:        testutil.DiscardLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if len(s.Packages) != 0 || !s.Report.OK() || s.Natives.Len() != 0 {
		t.Errorf("empty session expected, got %+v", s)
	}
}

func TestPrepare_Cancelled(t *testing.T) {
	t.Parallel()

	deps := t.TempDir()
	testutil.WriteArchive(t, deps, testutil.Archive{Name: "a", Version: "1.0.0"})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := Prepare(ctx, PrepareOptions{DependencyDir: deps, StagingParent: t.TempDir(), Logger: testutil.DiscardLogger()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Prepare() = %v, want context.Canceled", err)
	}
}

func TestBuilder_BuildAndList(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	writeProject(t, project, "name: demo\nversion: 1.1.0\nauthor: me\n", map[string]string{"a.ql": "x", "lib/b.ql": "y"})
	out := t.TempDir()

	var built []*qll.BuildResult
	b := &Builder{
		Options: qll.BuildOptions{ProjectRoot: project, Output: out},
		Logger:  testutil.DiscardLogger(),
		OnBuilt: func(r *qll.BuildResult) { built = append(built, r) },
	}
	res, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if res.Archive != filepath.Join(out, "demo-1.1.0.qll") || res.Sources != 2 {
		t.Errorf("result = %+v", res)
	}
	if len(built) != 1 {
		t.Errorf("OnBuilt called %d times", len(built))
	}

	entries, err := ListInstalled(t.Context(), index.Memory, out, testutil.DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "demo" {
		t.Errorf("ListInstalled() = %+v", entries)
	}
}

func TestBuilder_BuildFailure(t *testing.T) {
	t.Parallel()

	b := &Builder{Options: qll.BuildOptions{ProjectRoot: t.TempDir()}, Logger: testutil.DiscardLogger()}
	_, err := b.Build()
	if !errors.Is(err, qlerr.ErrNotFound) {
		t.Errorf("Build() without a descriptor = %v, want ErrNotFound", err)
	}
}

func TestBuilder_WatchRebuilds(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	writeProject(t, project, "name: demo\nversion: 1.0.0\nauthor: me\n", map[string]string{"a.ql": "x"})

	builds := make(chan *qll.BuildResult, 8)
	b := &Builder{
		Options: qll.BuildOptions{ProjectRoot: project, Output: t.TempDir()},
		Logger:  testutil.DiscardLogger(),
		OnBuilt: func(r *qll.BuildResult) { builds <- r },
	}

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() { errCh <- b.Watch(ctx, 50*time.Millisecond) }()

	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("initial build not reported")
	}
	// Let the watcher register its directories.
	time.Sleep(200 * time.Millisecond)
	testutil.WriteTree(t, project, map[string]string{"qilletni-src/b.ql": "y"})

	select {
	case r := <-builds:
		if r.Sources != 2 {
			t.Errorf("rebuild saw %d sources, want 2", r.Sources)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild not triggered")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Watch() = %v", err)
	}
}
