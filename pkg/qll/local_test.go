// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

type countingReader struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (c *countingReader) read(path string) ([]byte, error) {
	c.mu.Lock()
	c.calls[filepath.Base(path)]++
	fail := c.fail[filepath.Base(path)]
	c.mu.Unlock()
	if fail {
		return nil, errors.New("disk on fire")
	}
	return os.ReadFile(path)
}

func newLocalProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"qilletni-src/qilletni_info.yml": demoDescriptor,
		"qilletni-src/main.ql":           "main body",
		"qilletni-src/util/helpers.ql":   "helpers body",
		"qilletni-src/broken.ql":         "unreadable",
		"qilletni-src/notes.txt":         "ignored",
	})
	return root
}

func TestLoadLocal(t *testing.T) {
	t.Parallel()

	root := newLocalProject(t)
	meta, src, err := LoadLocal(root)
	if err != nil {
		t.Fatalf("LoadLocal() error = %v", err)
	}
	if meta.Name != "demo" || len(meta.Dependencies) != 1 {
		t.Errorf("metadata = %+v", meta)
	}
	if diff := cmp.Diff([]string{"broken.ql", "main.ql", "util/helpers.ql"}, src.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	if text, ok := src.Resolve("util/helpers.ql"); !ok || text != "helpers body" {
		t.Errorf("Resolve(util/helpers.ql) = %q, %v", text, ok)
	}
	if _, ok := src.Resolve("notes.txt"); ok {
		t.Error("non-source file should not resolve")
	}
}

func TestLocalSource_Memoizes(t *testing.T) {
	t.Parallel()

	root := newLocalProject(t)
	reader := &countingReader{calls: map[string]int{}, fail: map[string]bool{"broken.ql": true}}
	_, src, err := loadLocal(root, reader.read, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	first, ok1 := src.Resolve("main.ql")
	second, ok2 := src.Resolve("main.ql")
	if !ok1 || !ok2 || first != second || first != "main body" {
		t.Errorf("Resolve twice = (%q,%v) (%q,%v)", first, ok1, second, ok2)
	}
	if reader.calls["main.ql"] != 1 {
		t.Errorf("main.ql read %d times, want 1", reader.calls["main.ql"])
	}

	for range 3 {
		if _, ok := src.Resolve("broken.ql"); ok {
			t.Error("failed read should resolve as not found")
		}
	}
	if reader.calls["broken.ql"] != 1 {
		t.Errorf("broken.ql read %d times, want 1 (no retry)", reader.calls["broken.ql"])
	}

	if _, ok := src.Resolve("unknown.ql"); ok {
		t.Error("unknown path should not resolve")
	}
	if len(reader.calls) != 2 {
		t.Errorf("unexpected reads: %v", reader.calls)
	}
}

func TestLocalSource_Concurrent(t *testing.T) {
	t.Parallel()

	root := newLocalProject(t)
	reader := &countingReader{calls: map[string]int{}, fail: map[string]bool{}}
	_, src, err := loadLocal(root, reader.read, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.Resolve("util/helpers.ql")
		}()
	}
	wg.Wait()

	if reader.calls["helpers.ql"] != 1 {
		t.Errorf("helpers.ql read %d times, want 1", reader.calls["helpers.ql"])
	}
}

func TestLoadLocal_MissingDescriptor(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"qilletni-src/main.ql": "x"})

	_, _, err := LoadLocal(root)
	if !errors.Is(err, qlerr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
