// Notification Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"mountain-recommendation-engine/internal/handlers"
	"mountain-recommendation-engine/internal/utils"
)

func main() {
	_ = utils.InitLogger("info")
	defer utils.Sync()

	handler, err := handlers.NewNotificationHandler(context.Background())
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}
	defer handler.Close()

	lambda.Start(handler.Handle)
}
