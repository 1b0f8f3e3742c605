package main

import (
	"github.com/chronoverse/evcs/cmd"
)

func main() {
	cmd.Execute()
}
