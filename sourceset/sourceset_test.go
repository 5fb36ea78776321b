package sourceset

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gapi-tools/gapi/manifest"
)

const sep = string(filepath.Separator)

func newFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, f, []byte("/* "+f+" */"), 0o644))
	}
	return fsys
}

func TestBuildDirWithExclude(t *testing.T) {
	fsys := newFs(t, "src/a.c", "src/b.c", "src/a.h", "src/README")

	set, err := Build(fsys, manifest.Namespace{
		Name: "Gtk",
		Sources: []manifest.Source{
			{Kind: manifest.KindDir, Text: "./src"},
			{Kind: manifest.KindExclude, Text: "./src" + sep + "a.c"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gtk", set.Namespace)
	assert.Equal(t, []string{"./src" + sep + "b.c", "./src" + sep + "a.h"}, set.Files)
}

func TestBuildSourcesBeforeHeaders(t *testing.T) {
	fsys := newFs(t, "lib/z.c", "lib/a.h", "lib/m.c", "lib/b.h", "lib/sub/x.c")

	set, err := Build(fsys, manifest.Namespace{
		Name:    "Lib",
		Sources: []manifest.Source{{Kind: manifest.KindDir, Text: "lib\n"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"lib" + sep + "m.c",
		"lib" + sep + "z.c",
		"lib" + sep + "a.h",
		"lib" + sep + "b.h",
	}, set.Files)
}

func TestBuildDirectoryLocalExcludes(t *testing.T) {
	fsys := newFs(t, "src/a.c", "src/b.c", "src/b.h", "other/b.c")

	set, err := Build(fsys, manifest.Namespace{
		Name: "Gdk",
		Sources: []manifest.Source{
			{Kind: manifest.KindDirectory, Path: "./src", Excludes: []string{"b.c"}},
			{Kind: manifest.KindExclude, Text: "./src" + sep + "b.h"},
			{Kind: manifest.KindDir, Text: "other"},
		},
	})
	require.NoError(t, err)

	// the local exclude only hides ./src/b.c; other/b.c survives and the
	// namespace exclude still applies to the directory listing
	assert.Equal(t, []string{"./src" + sep + "a.c", "other" + sep + "b.c"}, set.Files)
}

func TestBuildFilesAndTrim(t *testing.T) {
	set, err := Build(afero.NewMemMapFs(), manifest.Namespace{
		Name: "GLib",
		Sources: []manifest.Source{
			{Kind: manifest.KindFile, Text: "glib/gmain.h  "},
			{Kind: manifest.KindFile, Text: "glib/gthread.h\n"},
			{Kind: manifest.KindExclude, Text: "glib/gthread.h \n"},
			{Kind: manifest.KindFile, Text: "glib/gmain.c"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"glib/gmain.h", "glib/gmain.c"}, set.Files)
}

func TestBuildExcludeAppliesAfterwards(t *testing.T) {
	set, err := Build(afero.NewMemMapFs(), manifest.Namespace{
		Sources: []manifest.Source{
			{Kind: manifest.KindExclude, Text: "late.h"},
			{Kind: manifest.KindFile, Text: "late.h"},
			{Kind: manifest.KindFile, Text: "early.h"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"early.h"}, set.Files)
}

func TestBuildInvalidNode(t *testing.T) {
	set, err := Build(afero.NewMemMapFs(), manifest.Namespace{
		Name: "Atk",
		Sources: []manifest.Source{
			{Kind: "glob", Text: "*.c"},
			{Kind: manifest.KindFile, Text: "atk/atk.h"},
		},
	})
	require.Error(t, err)

	var invalid *InvalidSourceNodeError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "glob", invalid.Kind)
	assert.Equal(t, "invalid source: glob (namespace Atk)", invalid.Error())
	assert.Equal(t, []string{"atk/atk.h"}, set.Files)
}

func TestBuildEmpty(t *testing.T) {
	fsys := newFs(t, "only/a.c")

	cases := map[string][]manifest.Source{
		"no sources":        nil,
		"missing directory": {{Kind: manifest.KindDir, Text: "nowhere"}},
		"all excluded": {
			{Kind: manifest.KindDir, Text: "only"},
			{Kind: manifest.KindExclude, Text: "only" + sep + "a.c"},
		},
		"locally excluded": {{Kind: manifest.KindDirectory, Path: "only", Excludes: []string{"a.c"}}},
	}

	for name, sources := range cases {
		t.Run(name, func(t *testing.T) {
			set, err := Build(fsys, manifest.Namespace{Name: "Pango", Sources: sources})
			require.NoError(t, err)
			assert.True(t, set.Empty())
		})
	}
}

func TestBuildDuplicates(t *testing.T) {
	fsys := newFs(t, "gdk/gdk.c", "gdk/gdk.h")

	set, err := Build(fsys, manifest.Namespace{
		Name: "Gdk",
		Sources: []manifest.Source{
			{Kind: manifest.KindFile, Text: "gdk" + sep + "gdk.h"},
			{Kind: manifest.KindDir, Text: "gdk"},
			{Kind: manifest.KindFile, Text: "gdk" + sep + "gdk.c "},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gdk" + sep + "gdk.h", "gdk" + sep + "gdk.c"}, set.Files)
}
