package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/adamn1225/adam-noahs-stuff/internal/cli"
)

func main() {
	if err := cli.RootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
