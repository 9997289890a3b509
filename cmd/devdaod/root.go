package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devdaod",
		Short: "DevDAO governance and challenge engine daemon",
	}

	InitRootCmd(rootCmd) // add subcommands like `init`, `start` and `version`

	return rootCmd
}
