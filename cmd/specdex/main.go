package main

import "github.com/specdex/specdex/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
