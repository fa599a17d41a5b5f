package main

import "load-manager/cmd"

func main() {
	cmd.Execute()
}
