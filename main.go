package main

import "github.com/junwei-lu/pricelens/cmd"

func main() {
	cmd.Execute()
}
