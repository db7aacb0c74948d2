// Package main implements the Lambda function that stops every running EC2
// instance in every enabled region.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/younsl/ec2stop/internal/config"
	"github.com/younsl/ec2stop/internal/handler"
	"github.com/younsl/ec2stop/internal/logger"
	"github.com/younsl/ec2stop/internal/version"
	"github.com/younsl/ec2stop/pkg/aws"
	"github.com/younsl/ec2stop/pkg/shutdown"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Initialize(cfg.LogFormat, cfg.GetLogLevel())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.InitTimeout)
	awsCfg, err := aws.LoadConfig(ctx, "")
	cancel()
	if err != nil {
		log.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	svc := shutdown.NewFromConfig(awsCfg, log)

	log.Debug("starting Lambda handler", "version", version.Get().String(), "home_region", awsCfg.Region)
	lambda.Start(handler.MultiRegion(svc, log))
}
