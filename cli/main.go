package main

import "github.com/ponyo877/tankarena/cli/cmd"

func main() {
	cmd.Execute()
}
