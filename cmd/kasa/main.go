package main

import "kasa/internal/cli"

func main() {
	cli.Execute()
}
