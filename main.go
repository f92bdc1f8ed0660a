package main

import "nathanbeddoewebdev/usersync/cmd"

func main() {
	cmd.Execute()
}
