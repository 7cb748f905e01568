package main

import (
	"os"

	"github.com/1homsi/unusedjs/cmd/unusedjs/command"
)

func main() {
	os.Exit(command.Execute())
}
