package ui

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"panelshell/internal/jsonutil"
	"panelshell/internal/panels"
	"panelshell/internal/ui/textutil"
)

// projectKind shows a read-only file tree rooted at a directory.
type projectKind struct {
	panels.BaseKind
	deps KindDeps

	mu      sync.Mutex
	root    string
	entries []string
	err     error
	offset  int
}

func newProjectKind(deps KindDeps) *projectKind {
	root := deps.Project.Root
	if root == "" {
		root = "."
	}
	return &projectKind{deps: deps, root: root}
}

func (k *projectKind) Init(ctx context.Context, p *panels.Panel) error {
	p.AddIconButton("refresh", "↻", "Refresh", k.refresh)
	k.refresh()
	return nil
}

func (k *projectKind) Mount(slot *panels.Node) {
	slot.Content = k
}

func (k *projectKind) LayoutFields() map[string]any {
	k.mu.Lock()
	defer k.mu.Unlock()
	return map[string]any{"root": k.root}
}

func (k *projectKind) ApplyLayoutFields(fields map[string]any) {
	root := jsonutil.GetString(fields, "root")
	if root == "" {
		return
	}
	k.mu.Lock()
	changed := root != k.root
	k.root = root
	k.mu.Unlock()
	if changed {
		k.refresh()
	}
}

// Scroll moves the visible window by delta lines.
func (k *projectKind) Scroll(delta int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.offset += delta
	if k.offset > len(k.entries)-1 {
		k.offset = len(k.entries) - 1
	}
	if k.offset < 0 {
		k.offset = 0
	}
}

func (k *projectKind) refresh() {
	k.mu.Lock()
	root := k.root
	k.mu.Unlock()

	entries, err := walkTree(root, k.deps.Project.MaxEntries, k.deps.Project.ShowHidden)
	if err != nil && k.deps.Log != nil {
		k.deps.Log.Warn("project tree", slog.String("root", root), slog.Any("error", err))
	}

	k.mu.Lock()
	k.entries = entries
	k.err = err
	k.offset = 0
	k.mu.Unlock()
}

func (k *projectKind) Render(width, height int) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return textutil.Truncate("error: "+k.err.Error(), width)
	}
	if len(k.entries) == 0 {
		return "(empty)"
	}
	end := k.offset + height
	if end > len(k.entries) {
		end = len(k.entries)
	}
	lines := make([]string, 0, end-k.offset)
	for _, e := range k.entries[k.offset:end] {
		lines = append(lines, textutil.Truncate(e, width))
	}
	return strings.Join(lines, "\n")
}

// walkTree lists root depth-first as indented names, directories first.
func walkTree(root string, max int, hidden bool) ([]string, error) {
	if max <= 0 {
		max = 200
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	out := []string{filepath.Base(filepath.Clean(root)) + "/"}
	if !info.IsDir() {
		return out, nil
	}
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		des, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		sortEntries(des)
		for _, de := range des {
			if len(out) >= max {
				return fs.SkipAll
			}
			name := de.Name()
			if !hidden && strings.HasPrefix(name, ".") {
				continue
			}
			indent := strings.Repeat("  ", depth)
			if de.IsDir() {
				out = append(out, indent+name+"/")
				if err := walk(filepath.Join(dir, name), depth+1); err != nil {
					return err
				}
				continue
			}
			out = append(out, indent+name)
		}
		return nil
	}
	if err := walk(root, 1); err != nil && err != fs.SkipAll {
		return out, err
	}
	return out, nil
}

func sortEntries(des []os.DirEntry) {
	sort.SliceStable(des, func(i, j int) bool {
		if des[i].IsDir() != des[j].IsDir() {
			return des[i].IsDir()
		}
		return des[i].Name() < des[j].Name()
	})
}
