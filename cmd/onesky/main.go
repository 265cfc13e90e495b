package main

import (
	"onesky/internal/cli"
)

var version = "dev"

func main() {
	cli.Execute(version)
}
