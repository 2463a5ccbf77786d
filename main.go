package main

import "holocron/cmd"

func main() {
	cmd.Execute()
}
