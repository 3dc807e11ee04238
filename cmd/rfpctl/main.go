package main

import (
	"os"

	"rfp_automation/cmd/rfpctl/commands"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
