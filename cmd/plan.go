package cmd

import (
	"errors"
	"fmt"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gapi-tools/gapi/driver"
	"github.com/gapi-tools/gapi/format"
)

func PlanHandler(cmd *cobra.Command, args []string) error {
	plan, err := driver.New(afero.NewOsFs(), nil).Plan(args[0])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), planTree(args[0], plan).Print())
	return nil
}

func planTree(root string, plan []driver.PlannedAPI) gotree.Tree {
	tree := gotree.New(root)
	for _, api := range plan {
		node := tree.Add(fmt.Sprintf("%s (via %s)", api.Filename, api.Intermediate))
		for _, ns := range api.Namespaces {
			label := ns.Library + "/" + ns.Set.Namespace
			if ns.Set.Empty() {
				label += " (skipped)"
			} else {
				label += " (" + format.Plural(len(ns.Set.Files), "file") + ")"
			}

			nsNode := node.Add(label)
			for _, f := range ns.Set.Files {
				nsNode.Add(f)
			}
			for _, err := range unjoin(ns.Invalid) {
				nsNode.Add("ignored: " + err.Error())
			}
		}
	}
	return tree
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
