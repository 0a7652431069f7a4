package main

import (
	"github.com/AzielCF/az-study/cmd"
)

func main() {
	cmd.Execute()
}
