package main

import (
	_ "github.com/biznex/bizconsole/src/clitools"
	"github.com/biznex/bizconsole/src/console"
)

func main() {
	console.ConsoleCommand.Execute()
}
