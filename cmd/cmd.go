package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gapi-tools/gapi/driver"
	"github.com/gapi-tools/gapi/envconfig"
	"github.com/gapi-tools/gapi/logutil"
	"github.com/gapi-tools/gapi/pipeline"
	"github.com/gapi-tools/gapi/version"
)

const usage = "Usage: gapi-parser <filename> [path_to_perl_exec]"

// RunHandler parses every api in the manifest given as the first argument. A
// second argument overrides the interpreter. Any other argument count only
// prints the usage line.
func RunHandler(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(cmd.OutOrStdout(), usage)
		return nil
	}

	if len(args) == 2 {
		envconfig.Interpreter = args[1]
		fmt.Fprintf(cmd.OutOrStdout(), "Using perl at %s\n", envconfig.Interpreter)
	}

	orch := pipeline.New(pipeline.Config{
		Interpreter:  envconfig.Interpreter,
		Preprocessor: envconfig.Preprocessor(),
		Transformer:  envconfig.Transformer(),
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	})

	summary, err := driver.New(afero.NewOsFs(), orch).Run(cmd.Context(), args[0])
	if len(summary.APIs) > 0 {
		printSummary(cmd.OutOrStdout(), summary)
	}
	return err
}

func printSummary(w io.Writer, summary driver.Summary) {
	var data [][]string
	for _, api := range summary.APIs {
		status := "ok"
		if api.Err != nil {
			status = "failed"
		}
		data = append(data, []string{
			api.Filename,
			fmt.Sprint(api.Namespaces),
			fmt.Sprint(api.Skipped),
			fmt.Sprint(api.Files),
			status,
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"OUTPUT", "NAMESPACES", "SKIPPED", "FILES", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func ConfigHandler(cmd *cobra.Command, args []string) error {
	if path := envconfig.ConfigPath(); path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", path)
	}
	fmt.Fprint(cmd.OutOrStdout(), envconfig.GenerateExampleConfig())
	return nil
}

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

func envDocs() []envconfig.EnvVar {
	var envs []envconfig.EnvVar
	for _, e := range envconfig.AsMap() {
		envs = append(envs, e)
	}
	sort.Slice(envs, func(i, j int) bool { return envs[i].Name < envs[j].Name })
	return envs
}

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gapi-parser <filename> [path_to_perl_exec]",
		Short:         "Generate API XML from C sources listed in a manifest",
		Args:          cobra.ArbitraryArgs,
		Version:       version.Version,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true

			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), logutil.Level(envconfig.Debug)))
		},
		RunE: RunHandler,
	}

	cobra.EnableCommandSorting = false

	planCmd := &cobra.Command{
		Use:   "plan <filename>",
		Short: "Show the source files each namespace would be parsed from",
		Args:  cobra.ExactArgs(1),
		RunE:  PlanHandler,
	}

	libsCmd := &cobra.Command{
		Use:   "libs [library...]",
		Short: "Probe the native libraries",
		Args:  cobra.ArbitraryArgs,
		RunE:  LibsHandler,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print an example configuration file",
		Args:  cobra.NoArgs,
		RunE:  ConfigHandler,
	}

	envs := envDocs()
	for _, cmd := range []*cobra.Command{rootCmd, planCmd, libsCmd} {
		appendEnvDocs(cmd, envs)
	}

	rootCmd.AddCommand(planCmd, libsCmd, configCmd)

	return rootCmd
}
