// Package main serves the affordability API behind API Gateway.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"loan-affordability-engine/internal/app"
	"loan-affordability-engine/internal/config"
	"loan-affordability-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	services := app.New(context.Background(), cfg, app.Options{Database: true, S3: true, Cache: true})
	defer services.Close()

	lambda.Start(services.AssessHandler().Handle)
}
