package main

import (
	"context"
	"fmt"
	"os"

	"todolist-server-go/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "todolist-server failed: %v\n", err)
		os.Exit(1)
	}
}
