package main

import (
	"context"
	"os"

	"github.com/billxc/git-file-vault/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	os.Exit(cli.Run(context.Background(), rootCmd, os.Args[1:]))
}
