package main

import "github.com/fulmenhq/rsaforge/cmd"

func main() {
	cmd.Execute()
}
