package main

import (
	"os"

	"defect-dataset-splitter/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
