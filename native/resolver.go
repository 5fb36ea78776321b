package native

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gapi-tools/gapi/logutil"
)

// Handle is an opaque handle returned by the operating system loader.
type Handle uintptr

// Loader is the operating system primitive used to open shared libraries.
type Loader interface {
	// Open loads the named library and returns its handle.
	Open(name string) (Handle, error)
	// SetSearchDir adds dir to the loader's search path. Only Windows
	// loaders honour it.
	SetSearchDir(dir string) error
	// Symbol resolves an exported symbol in a loaded library.
	Symbol(h Handle, name string) (uintptr, error)
}

var ErrLibraryNotFound = errors.New("library not found")

// LibraryNotFoundError reports that none of a library's candidate names
// could be loaded.
type LibraryNotFoundError struct {
	Library    string
	Candidates []string
	// Err is the loader error from the last attempt.
	Err error
}

func (e *LibraryNotFoundError) Error() string {
	return e.Library + ": " + strings.Join(e.Candidates, ", ")
}

func (e *LibraryNotFoundError) Unwrap() error { return e.Err }

func (e *LibraryNotFoundError) Is(target error) bool { return target == ErrLibraryNotFound }

// Resolver loads libraries by logical name and caches the handles for the
// life of the process. Construct one at startup and pass it to whatever needs
// native access.
type Resolver struct {
	loader      Loader
	platform    Platform
	searchDir   string
	definitions map[Library][]string

	mu        sync.Mutex
	libraries map[Library]Handle
	custom    map[string]Handle
	// loading serializes resolution per library; different libraries are
	// resolved in parallel
	loading map[Library]*sync.Mutex
}

type Option func(*Resolver)

// WithLoader replaces the operating system loader.
func WithLoader(l Loader) Option {
	return func(r *Resolver) { r.loader = l }
}

// WithPlatform overrides the detected platform.
func WithPlatform(p Platform) Option {
	return func(r *Resolver) { r.platform = p }
}

// WithSearchDir sets the directory added to the search path when the primary
// Windows name fails to load. An empty dir disables the retry.
func WithSearchDir(dir string) Option {
	return func(r *Resolver) { r.searchDir = dir }
}

// WithDefinitions replaces the candidate name table.
func WithDefinitions(defs map[Library][]string) Option {
	return func(r *Resolver) { r.definitions = defs }
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		loader:      SystemLoader(),
		platform:    CurrentPlatform(),
		searchDir:   DefaultSearchDir(),
		definitions: Definitions,
		libraries:   make(map[Library]Handle),
		custom:      make(map[string]Handle),
		loading:     make(map[Library]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Platform() Platform { return r.platform }

// Candidates returns the file names tried for lib, in declared order.
func (r *Resolver) Candidates(lib Library) []string {
	return r.definitions[lib]
}

// Loaded reports whether lib has already been resolved.
func (r *Resolver) Loaded(lib Library) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.libraries[lib]
	return ok
}

// Load returns the handle for lib, resolving it on first use. The platform's
// own name is tried first, then (on Windows) the same name again after
// extending the search path, then every candidate in declared order.
func (r *Resolver) Load(lib Library) (Handle, error) {
	l := r.libraryLock(lib)
	l.Lock()
	defer l.Unlock()

	r.mu.Lock()
	h, ok := r.libraries[lib]
	r.mu.Unlock()
	if ok {
		return h, nil
	}

	h, err := r.resolve(lib)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.libraries[lib] = h
	r.mu.Unlock()
	return h, nil
}

func (r *Resolver) libraryLock(lib Library) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.loading[lib]
	if !ok {
		l = &sync.Mutex{}
		r.loading[lib] = l
	}
	return l
}

func (r *Resolver) resolve(lib Library) (Handle, error) {
	names := r.definitions[lib]
	if len(names) == 0 {
		return 0, fmt.Errorf("%s: no candidate names defined", lib)
	}

	h, err := r.loadPrimary(names)
	if err != nil {
		slog.Debug("searching for native library", "library", lib, "candidates", names)
		for _, name := range names {
			h, err = r.loader.Open(name)
			if err == nil {
				break
			}
			logutil.Trace("native library candidate failed", "name", name, "error", err)
		}
	}

	if err != nil {
		return 0, &LibraryNotFoundError{Library: lib.String(), Candidates: names, Err: err}
	}

	slog.Debug("native library loaded", "library", lib)
	return h, nil
}

func (r *Resolver) loadPrimary(names []string) (Handle, error) {
	i := r.platform.primaryIndex()
	if i >= len(names) {
		return 0, fmt.Errorf("no %s name", r.platform)
	}
	primary := names[i]

	h, err := r.loader.Open(primary)
	if err == nil || r.platform != Windows {
		return h, err
	}

	if r.searchDir == "" {
		slog.Debug("no library search directory, skipping retry", "name", primary, "error", err)
		return h, err
	}

	if serr := r.loader.SetSearchDir(r.searchDir); serr != nil {
		slog.Warn("unable to extend library search path", "dir", r.searchDir, "error", serr)
	}
	return r.loader.Open(primary)
}

// LoadCustom loads a library by literal file name. Handles are cached per
// name, separately from the logical libraries.
func (r *Resolver) LoadCustom(name string) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.custom[name]; ok {
		return h, nil
	}

	h, err := r.loader.Open(name)
	if err != nil {
		return 0, &LibraryNotFoundError{Library: name, Candidates: []string{name}, Err: err}
	}

	r.custom[name] = h
	return h, nil
}

// Symbol resolves symbol in lib, loading lib first if needed.
func (r *Resolver) Symbol(lib Library, symbol string) (uintptr, error) {
	h, err := r.Load(lib)
	if err != nil {
		return 0, err
	}

	addr, err := r.loader.Symbol(h, symbol)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", lib, err)
	}
	return addr, nil
}
