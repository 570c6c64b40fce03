package main

import "github.com/amterp/lanes/internal/cli"

func main() {
	cli.Run()
}
