package main

import (
	"fmt"
	"os"

	"github.com/gudubets/gudubet-sub002/internal/app"
)

func main() {
	if err := app.NewApp().Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
