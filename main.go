package main

import "github.com/mreyes/legisync/cmd"

func main() {
	cmd.Execute()
}
