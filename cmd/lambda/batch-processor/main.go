// Package main assesses applicant CSV files as they land in the uploads
// prefix of the batch bucket.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"loan-affordability-engine/internal/app"
	"loan-affordability-engine/internal/config"
	"loan-affordability-engine/internal/handlers"
	"loan-affordability-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	services := app.New(context.Background(), cfg, app.Options{S3: true})
	defer services.Close()

	if services.S3 == nil {
		utils.GetLogger().Fatal("Batch processor requires S3", zap.String("bucket", cfg.S3Bucket))
	}

	handler := handlers.NewBatchProcessorHandler(services.S3, services.Assessor)
	lambda.Start(handler.Handle)
}
