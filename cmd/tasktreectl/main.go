package main

import "tasktree/internal/cli"

func main() {
	cli.Execute()
}
