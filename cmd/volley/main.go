package main

import "github.com/volleyhq/volley/internal/cli"

func main() {
	cli.Execute()
}
