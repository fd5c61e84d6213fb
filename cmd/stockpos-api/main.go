package main

import (
	"fmt"
	"os"

	"github.com/ltp2209/stockpos-api/cmd/stockpos-api/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
