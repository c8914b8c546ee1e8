package main

import "lending-engine/cmd"

func main() {
	cmd.Execute()
}
