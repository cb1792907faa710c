package main

import "github.com/andrescamacho/factorysim-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
