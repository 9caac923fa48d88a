package main

import "monpkg/internal/cli"

func main() {
	cli.Execute()
}
