package main

import (
	"context"
	"log"
	"os"

	"user-directory-api/internal"
)

func main() {
	ctx := context.Background()

	app, err := internal.NewApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}

	app.InitControllers()

	code := 0
	if err = app.Run(ctx); err != nil {
		app.Logger().Sugar().Errorf("userdirectory stopped with error: %v", err)
		code = 1
	}

	app.Close()
	os.Exit(code)
}
