// Package main contains the entrypoint for the gatebot Telegram bot.
package main

import (
	"os"

	"github.com/edgard/gatebot/cmd/gatebot/commands"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
