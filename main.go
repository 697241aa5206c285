package main

import "feedriver/cmd"

func main() {
	cmd.Execute()
}
