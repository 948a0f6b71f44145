package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{".", "/"},
		{"lib", "/lib"},
		{"/lib/", "/lib"},
		{"lib//file1.txt", "/lib/file1.txt"},
		{"/lib/./file1.txt", "/lib/file1.txt"},
		{"/lib/../README.md", "/README.md"},
		{"../../etc/passwd", "/etc/passwd"},
		{`lib\file1.txt`, "/lib/file1.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPath(tt.in))
		})
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/lib/file1.txt", JoinPath("/lib", "file1.txt"))
	assert.Equal(t, "/README.md", JoinPath("/", "README.md"))
	assert.Equal(t, "/a/b", JoinPath("a/", "/b/"))
}

func TestParentPath(t *testing.T) {
	assert.Equal(t, "/", ParentPath("/"))
	assert.Equal(t, "/", ParentPath("/lib"))
	assert.Equal(t, "/lib", ParentPath("lib/file1.txt/"))
}

func TestRelativePath(t *testing.T) {
	assert.Equal(t, "", RelativePath("/"))
	assert.Equal(t, "lib/file1.txt", RelativePath("/lib/file1.txt"))
	assert.Equal(t, "lib", RelativePath("lib/"))
}
