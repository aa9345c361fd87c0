package main

import "github.com/avin/lectern/internal/cli"

func main() {
	cli.Execute()
}
