package main

import "github.com/kokorolabs/soulscope/cmd"

func main() {
	cmd.Execute()
}
