package main

import "github.com/stardust-app/server/cli"

func main() {
	cli.Execute()
}
