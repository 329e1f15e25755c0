package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "charbot",
		Short:         "Chat with a configurable persona backed by a hosted language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				log.Printf("warning: failed to load .env file: %v", err)
				log.Println("continuing with system environment variables only")
			}
		},
	}

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		newChatCmd(),
	)
	return root
}
