package main

import "github.com/kamusis/orbcat/cmd"

func main() {
	cmd.Execute()
}
