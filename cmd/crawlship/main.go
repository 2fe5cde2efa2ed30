package main

import (
	"os"

	"github.com/nickalie/crawlship/internal/platform/cli"
)

func main() {
	os.Exit(cli.Execute())
}
