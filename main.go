package main

import "github.com/notargets/gopipe/cmd"

func main() {
	cmd.Execute()
}
