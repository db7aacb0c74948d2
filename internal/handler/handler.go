// Package handler maps the shutdown operations onto AWS Lambda invocations.
//
// Every invocation returns a response object, never an error: success is a
// 200 with the operation summary as a JSON body, and any failure is a 500
// carrying the fixed error label and the error text.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/younsl/ec2stop/internal/logger"
	"github.com/younsl/ec2stop/internal/models"
	"github.com/younsl/ec2stop/pkg/aws"
)

// Func is the signature passed to lambda.Start.
type Func func(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error)

// MultiRegionStopper stops instances across every region.
type MultiRegionStopper interface {
	StopAllRegions(ctx context.Context) (*models.MultiRegionResult, error)
}

// RegionStopper stops instances in a single region.
type RegionStopper interface {
	StopRegion(ctx context.Context, region string) (*models.SingleRegionResult, error)
}

// MultiRegion returns the handler of the all-regions function.
// The event payload is ignored.
func MultiRegion(svc MultiRegionStopper, log *slog.Logger) Func {
	return func(ctx context.Context, _ json.RawMessage) (events.APIGatewayProxyResponse, error) {
		result, err := svc.StopAllRegions(ctx)
		if err != nil {
			return failure(ctx, log, err), nil
		}
		return success(ctx, log, result), nil
	}
}

// SingleRegion returns the handler of the single-region function bound to
// region. The event payload is ignored.
func SingleRegion(svc RegionStopper, region string, log *slog.Logger) Func {
	return func(ctx context.Context, _ json.RawMessage) (events.APIGatewayProxyResponse, error) {
		result, err := svc.StopRegion(ctx, region)
		if err != nil {
			return failure(ctx, log, err), nil
		}
		return success(ctx, log, result), nil
	}
}

// Failure builds the 500 response for err.
func Failure(err error) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(models.ErrorBody{
		Error:   models.ExecutionFailedLabel,
		Message: err.Error(),
	})
	return response(http.StatusInternalServerError, body)
}

func failure(ctx context.Context, log *slog.Logger, err error) events.APIGatewayProxyResponse {
	logger.DeriveRequestLogger(ctx, log).Error(models.ExecutionFailedLabel,
		"error", err,
		"error_code", aws.ErrorCode(err))
	return Failure(err)
}

func success(ctx context.Context, log *slog.Logger, result any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(result)
	if err != nil {
		return failure(ctx, log, err)
	}
	return response(http.StatusOK, body)
}

func response(statusCode int, body []byte) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}
