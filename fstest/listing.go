package fstest

import (
	"context"
	"slices"
	"testing"

	"github.com/jmgilman/go/vfs/core"
)

func testGetDir(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	for _, dir := range []string{"/", "/lib"} {
		listed, err := b.ReadDir(ctx, dir)
		if err != nil {
			t.Fatalf("ReadDir(%s): %v", dir, err)
		}
		got, err := core.GetDir(ctx, b, dir, nil)
		if err != nil {
			t.Fatalf("GetDir(%s): %v", dir, err)
		}
		if !slices.Equal(nodePaths(listed), nodePaths(got)) {
			t.Errorf("GetDir(%s) = %v, ReadDir = %v", dir, nodePaths(got), nodePaths(listed))
		}
	}
}

func testGetDirSort(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	listed, err := b.ReadDir(ctx, "/lib")
	if err != nil {
		t.Fatalf("ReadDir(/lib): %v", err)
	}
	unsorted := slices.Sorted(slices.Values(nodePaths(listed)))

	asc, err := core.GetDir(ctx, b, "/lib", &core.GetDirOptions{SortBy: core.SortByMtime, SortDir: core.Ascending})
	if err != nil {
		t.Fatalf("GetDir(mtime asc): %v", err)
	}
	desc, err := core.GetDir(ctx, b, "/lib", &core.GetDirOptions{SortBy: core.SortByMtime, SortDir: core.Descending})
	if err != nil {
		t.Fatalf("GetDir(mtime desc): %v", err)
	}

	for i := 1; i < len(asc); i++ {
		if asc[i].ModTime.Before(asc[i-1].ModTime) {
			t.Errorf("GetDir(mtime asc): %s before %s", asc[i-1].Path, asc[i].Path)
		}
	}
	for i := 1; i < len(desc); i++ {
		if desc[i].ModTime.After(desc[i-1].ModTime) {
			t.Errorf("GetDir(mtime desc): %s before %s", desc[i-1].Path, desc[i].Path)
		}
	}
	for name, nodes := range map[string][]core.Node{"asc": asc, "desc": desc} {
		if got := slices.Sorted(slices.Values(nodePaths(nodes))); !slices.Equal(got, unsorted) {
			t.Errorf("GetDir(mtime %s) is not a permutation of ReadDir: %v vs %v", name, got, unsorted)
		}
	}

	// The fixture's /lib files were modified in name order.
	want := []string{"/lib/file1.txt", "/lib/file2.txt", "/lib/file3.txt"}
	if !slices.Equal(nodePaths(asc), want) {
		t.Errorf("GetDir(mtime asc) = %v, want %v", nodePaths(asc), want)
	}

	bySize, err := core.GetDir(ctx, b, "/lib", &core.GetDirOptions{SortBy: core.SortBySize, SortDir: core.Descending})
	if err != nil {
		t.Fatalf("GetDir(size desc): %v", err)
	}
	if got := nodePaths(bySize); !slices.Equal(got, []string{"/lib/file3.txt", "/lib/file2.txt", "/lib/file1.txt"}) {
		t.Errorf("GetDir(size desc) = %v", got)
	}
}

func testFind(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	found, err := core.Find(ctx, b, "/", nil)
	if err != nil {
		t.Fatalf("Find(/): %v", err)
	}
	if len(found) != 4 {
		t.Fatalf("Find(/) returned %d nodes, want 4: %v", len(found), nodePaths(found))
	}

	var want []string
	for _, f := range FixtureFiles() {
		want = append(want, f.Path)
	}
	if got := slices.Sorted(slices.Values(nodePaths(found))); !slices.Equal(got, want) {
		t.Errorf("Find(/) = %v, want %v", got, want)
	}

	lib, err := core.Find(ctx, b, "/lib", nil)
	if err != nil {
		t.Fatalf("Find(/lib): %v", err)
	}
	if len(lib) != 3 {
		t.Errorf("Find(/lib) returned %d nodes, want 3", len(lib))
	}
}

func testFindCount(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	found, err := core.Find(ctx, b, "/", &core.FindOptions{IncludeDirectories: true})
	if err != nil {
		t.Fatalf("Find(/, IncludeDirectories): %v", err)
	}

	total, err := countReadDir(ctx, b, "/")
	if err != nil {
		t.Fatalf("ReadDir walk: %v", err)
	}
	if len(found) != total {
		t.Errorf("Find(/) returned %d nodes, sum of ReadDir lengths is %d", len(found), total)
	}

	seen := make(map[string]bool, len(found))
	for _, n := range found {
		if seen[n.Path] {
			t.Errorf("Find(/) returned %s twice", n.Path)
		}
		seen[n.Path] = true
	}
}

func countReadDir(ctx context.Context, b core.Backend, dir string) (int, error) {
	children, err := b.ReadDir(ctx, dir)
	if err != nil {
		return 0, err
	}
	total := len(children)
	for _, child := range children {
		if child.IsDir {
			n, err := countReadDir(ctx, b, child.Path)
			if err != nil {
				return 0, err
			}
			total += n
		}
	}
	return total, nil
}
