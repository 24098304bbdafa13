package main

import "github.com/mherod/source-parse/internal/cli"

func main() {
	cli.Execute()
}
