package main

import "github.com/robmorgan/conductor/cmd"

func main() {
	cmd.Execute()
}
