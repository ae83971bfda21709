package main

import "github.com/openclaw/clawchat/cmd/clawchat/commands"

func main() {
	commands.Execute()
}
