package cmd

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gapi-tools/gapi/envconfig"
	"github.com/gapi-tools/gapi/native"
)

type probe struct {
	lib    native.Library
	names  []string
	status string
}

func LibsHandler(cmd *cobra.Command, args []string) error {
	libs := native.Libraries()
	if len(args) > 0 {
		libs = libs[:0:0]
		for _, arg := range args {
			lib, err := native.ParseLibrary(arg)
			if err != nil {
				return err
			}
			libs = append(libs, lib)
		}
	}

	var opts []native.Option
	if envconfig.SearchDir != "" {
		opts = append(opts, native.WithSearchDir(envconfig.SearchDir))
	}

	probes := probeLibraries(native.NewResolver(opts...), libs)
	printProbes(cmd.OutOrStdout(), probes)
	return nil
}

// probeLibraries loads every library through r. A library that fails to load
// is reported, not returned as an error.
func probeLibraries(r *native.Resolver, libs []native.Library) []probe {
	probes := make([]probe, len(libs))

	var g errgroup.Group
	g.SetLimit(4)
	for i, lib := range libs {
		g.Go(func() error {
			p := probe{lib: lib, names: r.Candidates(lib), status: "loaded"}
			if _, err := r.Load(lib); err != nil {
				p.status = "not found"
			}
			probes[i] = p
			return nil
		})
	}
	_ = g.Wait()

	return probes
}

func printProbes(w io.Writer, probes []probe) {
	var data [][]string
	for _, p := range probes {
		data = append(data, []string{p.lib.String(), strings.Join(p.names, ", "), p.status})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"LIBRARY", "CANDIDATES", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
