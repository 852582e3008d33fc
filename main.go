package main

import "github.com/fgrehm/darp/cmd"

func main() {
	cmd.Execute()
}
