package main

import (
	"porch/cmd"
)

func main() {
	cmd.Execute()
}
