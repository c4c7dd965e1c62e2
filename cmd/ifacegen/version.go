package main

import (
	"fmt"

	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X main.version=..."
var (
	version   = ""
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

const asciiName = `  _  __                            
 (_)/ _| __ _  ___ ___  __ _  ___ _ __  
 | | |_ / _' |/ __/ _ \/ _' |/ _ \ '_ \ 
 | |  _| (_| | (_|  __/ (_| |  __/ | | |
 |_|_|  \__,_|\___\___|\__, |\___|_| |_|
                       |___/            `

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("ifacegen", "Generates C# interfaces from class member manifests.", "https://github.com/toyz/ifacegen"),
		func(i *goversion.Info) {
			i.ASCIIName = asciiName
			if version != "" {
				i.GitVersion = version
			}
			if commit != "" {
				i.GitCommit = commit
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.stdout, buildVersion().String())
			return err
		},
	}
}
