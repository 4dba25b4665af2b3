package main

import (
	"os"

	"scangate/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
