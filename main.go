package main

import (
	"os"

	"github.com/tindevelopers/tinadmin-saas-base/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
