package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/briandowns/spinner"
	"github.com/younsl/ec2stop/internal/config"
	"github.com/younsl/ec2stop/internal/handler"
	"github.com/younsl/ec2stop/internal/models"
	"github.com/younsl/ec2stop/pkg/aws"
	"github.com/younsl/ec2stop/pkg/formatter"
	"github.com/younsl/ec2stop/pkg/pricing"
	"github.com/younsl/ec2stop/pkg/shutdown"
	"github.com/younsl/ec2stop/pkg/utils"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// estimator looks up on-demand prices for stopped instances
type estimator interface {
	Estimate(ctx context.Context, instanceType, region string) (pricing.Estimate, error)
	Stats() pricing.Stats
}

type runner struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer

	noSpinner bool
}

// runAllRegions wires AWS clients and stops instances in every region
func runAllRegions(ctx context.Context, r *runner) error {
	region := homeRegion
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = utils.GetDefaultRegion()
	}

	awsCfg, err := aws.LoadConfig(ctx, region)
	if err != nil {
		return err
	}

	var prices estimator
	if estimateSavings {
		prices = pricing.NewClient(awsCfg)
	}

	return r.stopAll(ctx, shutdown.NewFromConfig(awsCfg, r.log), prices)
}

// runRegion wires AWS clients and stops instances in the target region
func runRegion(ctx context.Context, r *runner) error {
	region := targetRegion
	if region == "" {
		region = r.cfg.TargetRegion
	}
	if !utils.IsValidRegion(region) {
		fmt.Fprintf(r.stderr, "Warning: region '%s' is not in the known region list\n", region)
	}

	awsCfg, err := aws.LoadConfig(ctx, region)
	if err != nil {
		return err
	}

	var prices estimator
	if estimateSavings {
		prices = pricing.NewClient(awsCfg)
	}

	svc := shutdown.New(nil, shutdown.NewEC2ClientFactory(awsCfg), r.log)
	return r.stopOne(ctx, svc, region, prices)
}

func (r *runner) stopAll(ctx context.Context, svc handler.MultiRegionStopper, prices estimator) error {
	if outputFormat == outputJSON {
		return r.printResponse(handler.MultiRegion(svc, r.log)(ctx, nil))
	}

	fmt.Fprintln(r.stdout, "Stopping running EC2 instances in every region ...")
	started := time.Now()
	s := r.startSpinner("Stopping instances across regions ...")

	result, err := svc.StopAllRegions(ctx)
	duration := time.Since(started)
	r.stopSpinner(s, fmt.Sprintf("✓ [%d instances stopped] Completed in %.2f seconds\n",
		resultCount(result), duration.Seconds()))
	if err != nil {
		return fmt.Errorf("%s: %w", models.ExecutionFailedLabel, err)
	}

	estimates := r.estimate(ctx, prices, result.StoppedInstances)
	formatter.PrintStoppedTable(r.stdout, result.StoppedInstances, estimates, started, duration)
	formatter.PrintFailedRegions(r.stdout, result.FailedRegions)
	formatter.PrintSummary(r.stdout, result.TotalInstancesStopped, result.TotalRegionsProcessed, started)
	if prices != nil {
		formatter.PrintPricingStats(r.stdout, prices.Stats())
	}
	return nil
}

func (r *runner) stopOne(ctx context.Context, svc handler.RegionStopper, region string, prices estimator) error {
	if outputFormat == outputJSON {
		return r.printResponse(handler.SingleRegion(svc, region, r.log)(ctx, nil))
	}

	fmt.Fprintf(r.stdout, "Stopping running EC2 instances in %s (%s) ...\n",
		region, utils.GetRegionDescriptiveName(region))
	started := time.Now()
	s := r.startSpinner(fmt.Sprintf("Stopping instances in %s ...", region))

	result, err := svc.StopRegion(ctx, region)
	duration := time.Since(started)
	count := 0
	if result != nil {
		count = result.TotalInstancesStopped
	}
	r.stopSpinner(s, fmt.Sprintf("✓ [%d instances stopped] Completed in %.2f seconds\n",
		count, duration.Seconds()))
	if err != nil {
		return fmt.Errorf("%s: %w", models.ExecutionFailedLabel, err)
	}

	estimates := r.estimate(ctx, prices, result.StoppedInstances)
	formatter.PrintStoppedTable(r.stdout, result.StoppedInstances, estimates, started, duration)
	formatter.PrintSummary(r.stdout, result.TotalInstancesStopped, 1, started)
	if prices != nil {
		formatter.PrintPricingStats(r.stdout, prices.Stats())
	}
	return nil
}

// estimate returns pricing estimates keyed by formatter.EstimateKey, or nil
// when savings estimation is off
func (r *runner) estimate(ctx context.Context, prices estimator, records []models.InstanceRecord) map[string]pricing.Estimate {
	if prices == nil {
		return nil
	}

	estimates := make(map[string]pricing.Estimate)
	for _, record := range records {
		if record.InstanceType == "" {
			continue
		}
		key := formatter.EstimateKey(record.Region, record.InstanceType)
		if _, ok := estimates[key]; ok {
			continue
		}

		estimate, err := prices.Estimate(ctx, record.InstanceType, record.Region)
		if err != nil {
			r.log.Warn("error getting price",
				"instance_type", record.InstanceType,
				"region", record.Region,
				"error", err)
		}
		estimates[key] = estimate
	}
	return estimates
}

// printResponse writes the Lambda response body exactly as the function
// would return it
func (r *runner) printResponse(resp events.APIGatewayProxyResponse, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(r.stdout, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return errExecutionFailed
	}
	return nil
}

func (r *runner) startSpinner(suffix string) *spinner.Spinner {
	if r.noSpinner {
		return nil
	}
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(r.stderr))
	s.Suffix = " " + suffix
	s.Start()
	return s
}

func (r *runner) stopSpinner(s *spinner.Spinner, finalMsg string) {
	if s == nil {
		return
	}
	s.FinalMSG = finalMsg
	s.Stop()
}

func resultCount(result *models.MultiRegionResult) int {
	if result == nil {
		return 0
	}
	return result.TotalInstancesStopped
}

var errExecutionFailed = errors.New(models.ExecutionFailedLabel)
