package main

import "autoreel/internal/cli"

func main() {
	cli.Execute()
}
