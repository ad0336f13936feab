// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qilletni/toolchain/internal/config"
	"github.com/qilletni/toolchain/internal/testutil"
)

type staticProvider struct {
	cfg *config.Config
	err error
}

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, p.err
}

type harness struct {
	cfg    *config.Config
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	return &harness{cfg: &config.Config{
		DependencyPath: filepath.Join(home, "packages"),
		IndexPath:      filepath.Join(home, "index.db"),
		StagingDir:     t.TempDir(),
		Log:            config.LogConfig{Level: "error"},
	}}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	app := NewApp(Dependencies{
		Config: staticProvider{cfg: h.cfg},
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(t.Context())
}

func TestBuildThenListAndInfo(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	project := t.TempDir()
	testutil.WriteTree(t, project, map[string]string{
		"qilletni-src/qilletni_info.yml": "name: demo\nversion: 1.2.0\nauthor: me\nlicense: MIT\ndependencies:\n  - std:^1.0.0\n",
		"qilletni-src/main.ql":           "print(1)",
	})

	if err := h.run(t, "build", project); err != nil {
		t.Fatalf("build failed: %v\n%s", err, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "demo-1.2.0.qll") {
		t.Errorf("build output = %q", h.stdout.String())
	}

	if err := h.run(t, "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"demo", "1.2.0", "pkg:qilletni/demo@1.2.0"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, h.stdout.String())
		}
	}

	archive := filepath.Join(h.cfg.DependencyPath, "demo-1.2.0.qll")
	if err := h.run(t, "info", archive); err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"demo 1.2.0", "MIT", "std", "^1.0.0", "main.ql"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, h.stdout.String())
		}
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	testutil.WriteArchive(t, h.cfg.DependencyPath, testutil.Archive{Name: "a", Version: "1.0.0", Dependencies: []string{"b:^1.0.0"}})
	testutil.WriteArchive(t, h.cfg.DependencyPath, testutil.Archive{Name: "b", Version: "1.2.0"})

	if err := h.run(t, "check"); err != nil {
		t.Fatalf("check failed: %v\n%s", err, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "all dependencies satisfied") {
		t.Errorf("check output = %q", h.stdout.String())
	}

	testutil.WriteArchive(t, h.cfg.DependencyPath, testutil.Archive{Name: "c", Version: "1.0.0", Dependencies: []string{"missing:1.0.0"}})
	err := h.run(t, "check")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("check with an unmet dependency = %v, want exit code 1", err)
	}
	if !errors.Is(err, errUnmetDependencies) {
		t.Errorf("error should wrap errUnmetDependencies, got %v", err)
	}
	if !strings.Contains(h.stdout.String(), "not found") {
		t.Errorf("report should show the missing dependency:\n%s", h.stdout.String())
	}
}

func TestBuild_MissingDescriptor(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.run(t, "build", t.TempDir())
	if err == nil {
		t.Fatal("expected build to fail without a descriptor")
	}
	if !strings.Contains(err.Error(), "qilletni_info") {
		t.Errorf("error should name the descriptor, got %v", err)
	}
}

func TestConfigLoadFailure(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{
		Config: staticProvider{err: errors.New("boom")},
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	})
	root := NewRootCommand(app)
	root.SetArgs([]string{"list"})
	if err := root.ExecuteContext(t.Context()); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Execute() = %v, want the config error", err)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	e := &ExitError{Code: 3, Err: inner}
	if e.Error() != "inner" || !errors.Is(e, inner) {
		t.Errorf("ExitError = %v", e)
	}
	if (&ExitError{Code: 2}).Error() != "exit status 2" {
		t.Error("unexpected message without a cause")
	}
}
