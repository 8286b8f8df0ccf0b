package main

import "github.com/mpapenbr/stagerace-classification-go/cmd"

func main() {
	cmd.Execute()
}
