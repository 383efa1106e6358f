// Package main is the entry point for the Magic Train CLI.
package main

import (
	"os"

	"github.com/yuhnmomo/magictrain/cmd/magictrain/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
