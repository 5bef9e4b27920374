package main

import "flypad/internal/cli"

func main() {
	cli.Execute()
}
