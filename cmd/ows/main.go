package main

import "github.com/mcoot/onewordstory/internal/cli"

func main() {
	cli.Execute()
}
