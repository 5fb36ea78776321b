package native

import (
	"fmt"
	"strings"
)

// Library is the logical name of a native shared library, independent of the
// file name it carries on a given platform.
type Library int

const (
	GLib Library = iota
	GObject
	Cairo
	Gio
	Atk
	Pango
	Gdk
	GdkPixbuf
	Gtk
	PangoCairo
	GtkSourceView
	ActionsMenusToolbarsKit
	TextEditorProductLine
	GnomeDocking
)

var libraryNames = map[Library]string{
	GLib:                    "GLib",
	GObject:                 "GObject",
	Cairo:                   "Cairo",
	Gio:                     "Gio",
	Atk:                     "Atk",
	Pango:                   "Pango",
	Gdk:                     "Gdk",
	GdkPixbuf:               "GdkPixbuf",
	Gtk:                     "Gtk",
	PangoCairo:              "PangoCairo",
	GtkSourceView:           "GtkSourceView",
	ActionsMenusToolbarsKit: "ActionsMenusToolbarsKit",
	TextEditorProductLine:   "TextEditorProductLine",
	GnomeDocking:            "GnomeDocking",
}

func (l Library) String() string {
	if name, ok := libraryNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Library(%d)", int(l))
}

// Definitions maps every library to its candidate file names. Index 0 is the
// Windows name, 1 the Linux name, 2 the macOS name, and anything after that is
// an alias tried on every platform.
var Definitions = map[Library][]string{
	GLib:       {"libglib-2.0-0.dll", "libglib-2.0.so.0", "libglib-2.0.0.dylib", "glib-2.dll"},
	GObject:    {"libgobject-2.0-0.dll", "libgobject-2.0.so.0", "libgobject-2.0.0.dylib", "gobject-2.dll"},
	Cairo:      {"libcairo-2.dll", "libcairo.so.2", "libcairo.2.dylib", "cairo.dll"},
	Gio:        {"libgio-2.0-0.dll", "libgio-2.0.so.0", "libgio-2.0.0.dylib", "gio-2.dll"},
	Atk:        {"libatk-1.0-0.dll", "libatk-1.0.so.0", "libatk-1.0.0.dylib", "atk-1.dll"},
	Pango:      {"libpango-1.0-0.dll", "libpango-1.0.so.0", "libpango-1.0.0.dylib", "pango-1.dll"},
	Gdk:        {"libgdk-3-0.dll", "libgdk-3.so.0", "libgdk-3.0.dylib", "gdk-3.dll"},
	GdkPixbuf:  {"libgdk_pixbuf-2.0-0.dll", "libgdk_pixbuf-2.0.so.0", "libgdk_pixbuf-2.0.dylib", "gdk_pixbuf-2.dll"},
	Gtk:        {"libgtk-3-0.dll", "libgtk-3.so.0", "libgtk-3.0.dylib", "gtk-3.dll"},
	PangoCairo: {"libpangocairo-1.0-0.dll", "libpangocairo-1.0.so.0", "libpangocairo-1.0.0.dylib", "pangocairo-1.dll"},

	GtkSourceView:           {"libgtksourceview-4-0.dll", "libgtksourceview-4.so.0", "libgtksourceview-4.0.dylib", "gtksourceview-4.dll"},
	ActionsMenusToolbarsKit: {"libamtk-5-0.dll", "libamtk-5.so.0", "libamtk-5.0.dylib", "amtk-5.dll"},
	TextEditorProductLine:   {"libtepl-4-0.dll", "libtepl-4.so.0", "libtepl-4.0.dylib", "tepl-4.dll"},
	GnomeDocking:            {"libgdl-3-5.dll", "libgdl-3.so.4", "libgdl-3.5.dylib", "gdl-3.dll"},
}

// Libraries returns every known library in declaration order.
func Libraries() []Library {
	libs := make([]Library, 0, len(libraryNames))
	for l := GLib; l <= GnomeDocking; l++ {
		libs = append(libs, l)
	}
	return libs
}

// ParseLibrary looks up a library by its logical name, ignoring case.
func ParseLibrary(name string) (Library, error) {
	for l, n := range libraryNames {
		if strings.EqualFold(n, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown library %q", name)
}
