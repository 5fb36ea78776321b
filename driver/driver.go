// Package driver walks a manifest, runs the pipeline for every namespace of
// every API, and writes each API's accumulated output as an indented XML
// document.
package driver

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/spf13/afero"

	"github.com/gapi-tools/gapi/format"
	"github.com/gapi-tools/gapi/manifest"
	"github.com/gapi-tools/gapi/pipeline"
	"github.com/gapi-tools/gapi/sourceset"
)

// Runner runs one namespace through the external pipeline.
type Runner interface {
	Run(ctx context.Context, job pipeline.Job) error
}

// APIError is a failure confined to one API element; the remaining APIs are
// still processed.
type APIError struct {
	Filename string
	Err      error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s: %v", e.Filename, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// APIResult summarises the work done for one API element.
type APIResult struct {
	Filename   string
	Namespaces int
	Skipped    int
	Files      int
	Invalid    int
	Err        error
}

type Summary struct {
	APIs []APIResult
}

type Driver struct {
	fs     afero.Fs
	runner Runner
}

func New(fsys afero.Fs, runner Runner) *Driver {
	return &Driver{fs: fsys, runner: runner}
}

// Run processes every API in the manifest at path, in document order. A
// manifest that cannot be read, or a pipeline stage that cannot be started,
// stops the run. Any other failure is reported for its API and the run moves
// on; those failures are returned joined.
func (d *Driver) Run(ctx context.Context, path string) (Summary, error) {
	m, err := manifest.Load(d.fs, path)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	var errs []error
	for _, api := range m.APIs {
		res, err := d.processAPI(ctx, api)
		res.Err = err
		summary.APIs = append(summary.APIs, res)
		if err == nil {
			continue
		}

		if errors.Is(err, pipeline.ErrProcessLaunch) {
			return summary, err
		}

		slog.Error("api failed", "filename", api.Filename, "error", err)
		errs = append(errs, err)
	}

	return summary, errors.Join(errs...)
}

func (d *Driver) processAPI(ctx context.Context, api manifest.API) (APIResult, error) {
	res := APIResult{Filename: api.Filename}
	pre := api.IntermediatePath()

	if err := d.fs.Remove(pre); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, &APIError{Filename: api.Filename, Err: fmt.Errorf("removing stale %s: %w", pre, err)}
	}

	slog.Info("processing api", "filename", api.Filename)
	for _, lib := range api.Libraries {
		for _, ns := range lib.Namespaces {
			set, err := sourceset.Build(d.fs, ns)
			if err != nil {
				res.Invalid += countErrors(err)
				slog.Warn("skipping invalid sources", "library", lib.Name, "namespace", ns.Name, "error", err)
			}

			if set.Empty() {
				slog.Debug("no sources, skipping namespace", "library", lib.Name, "namespace", ns.Name)
				res.Skipped++
				continue
			}

			slog.Info("parsing", "library", lib.Name, "namespace", ns.Name, "files", format.Plural(len(set.Files), "file"))
			if err := d.runner.Run(ctx, pipeline.Job{
				Files:        set.Files,
				Namespace:    ns.Name,
				Library:      lib.Name,
				Intermediate: pre,
			}); err != nil {
				return res, err
			}

			res.Namespaces++
			res.Files += len(set.Files)
		}
	}

	if err := d.finalize(pre, api.Filename); err != nil {
		return res, &APIError{Filename: api.Filename, Err: err}
	}
	return res, nil
}

// finalize reformats the intermediate document into out and removes it.
func (d *Driver) finalize(pre, out string) error {
	data, err := afero.ReadFile(d.fs, pre)
	if err != nil {
		return fmt.Errorf("%w: %v", manifest.ErrInvalidManifest, err)
	}

	if err := wellFormed(data); err != nil {
		return fmt.Errorf("%w: %s: %v", manifest.ErrInvalidManifest, pre, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("%w: %s: %v", manifest.ErrInvalidManifest, pre, err)
	}
	doc.Indent(2)

	f, err := d.fs.Create(out)
	if err != nil {
		return err
	}

	n, err := doc.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	slog.Info("wrote api", "filename", out, "size", format.HumanBytes(n))
	return d.fs.Remove(pre)
}

// wellFormed rejects documents the strict decoder cannot read end to end,
// including truncated output and documents without a root element.
func wellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root bool
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !root {
				return errors.New("no root element")
			}
			return nil
		}
		if err != nil {
			return err
		}
		if _, ok := tok.(xml.StartElement); ok {
			root = true
		}
	}
}

func countErrors(err error) int {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		return len(u.Unwrap())
	}
	return 1
}
