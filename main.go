package main

import (
	"os"

	"github.com/toogle/docker-tags/cmd"
)

func main() {
	cmd.Execute(os.Args[1:])
}
