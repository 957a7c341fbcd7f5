package main

import "github.com/harmonix-bot/harmonix-web/cmd"

func main() {
	cmd.Execute()
}
