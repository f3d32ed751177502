package main

import "github.com/inovacc/patchtracker/cmd"

func main() {
	cmd.Execute()
}
