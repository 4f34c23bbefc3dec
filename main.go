package main

import "github.com/planpal/planpal-services/cmd"

func main() {
	cmd.Execute()
}
