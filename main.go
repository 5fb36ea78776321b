package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/gapi-tools/gapi/cmd"
	"github.com/gapi-tools/gapi/envconfig"
)

func main() {
	if err := cmd.LoadDotEnvFromGapiFolder(); err != nil {
		log.Fatal(err)
	}
	// pick up anything the .env file added
	envconfig.LoadConfig()

	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
