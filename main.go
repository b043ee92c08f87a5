package main

import "github.com/G3rze/edaprofile/cmd"

func main() {
	cmd.Execute()
}
