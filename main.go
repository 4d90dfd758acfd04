package main

import "github.com/ancientnerds/relica/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
