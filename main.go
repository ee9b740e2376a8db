package main

import "github.com/rnwolfe/lifeos/cmd"

func main() {
	cmd.Execute()
}
