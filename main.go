package main

import "github.com/gearkeep/maintenance-management/cmd"

func main() {
	cmd.Execute()
}
