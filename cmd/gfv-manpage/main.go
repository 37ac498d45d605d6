package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/billxc/git-file-vault/internal/cli"
	"github.com/billxc/git-file-vault/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "GFV",
		Section: "1",
		Source:  "gfv " + version.Version,
		Manual:  "gfv manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
