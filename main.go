package main

import "github.com/codebros/codebros-backend/src/commands"

func main() {
	commands.Execute()
}
