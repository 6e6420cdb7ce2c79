package main

import "whats-poppin/cmd"

func main() {
	cmd.Execute()
}
