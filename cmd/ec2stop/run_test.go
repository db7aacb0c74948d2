package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/ec2stop/internal/config"
	"github.com/younsl/ec2stop/internal/logger"
	"github.com/younsl/ec2stop/internal/models"
	"github.com/younsl/ec2stop/pkg/pricing"
)

type fakeService struct {
	multi  *models.MultiRegionResult
	single *models.SingleRegionResult
	err    error
	region string
}

func (f *fakeService) StopAllRegions(_ context.Context) (*models.MultiRegionResult, error) {
	return f.multi, f.err
}

func (f *fakeService) StopRegion(_ context.Context, region string) (*models.SingleRegionResult, error) {
	f.region = region
	return f.single, f.err
}

type fakeEstimator struct {
	calls int
}

func (f *fakeEstimator) Estimate(_ context.Context, instanceType, region string) (pricing.Estimate, error) {
	f.calls++
	if instanceType == "unknown.type" {
		return pricing.Estimate{InstanceType: instanceType, Region: region, Source: pricing.SourceNA}, errors.New("no pricing found")
	}
	return pricing.Estimate{InstanceType: instanceType, Region: region, HourlyPrice: 0.5, Source: pricing.SourceAPI}, nil
}

func (f *fakeEstimator) Stats() pricing.Stats {
	return pricing.Stats{APICalls: f.calls}
}

func newTestRunner(t *testing.T, format string) (*runner, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	previous := outputFormat
	outputFormat = format
	t.Cleanup(func() { outputFormat = previous })

	var stdout bytes.Buffer
	return &runner{
		cfg:       &config.Config{TargetRegion: "us-east-1"},
		log:       logger.Discard(),
		stdout:    &stdout,
		stderr:    &bytes.Buffer{},
		noSpinner: true,
	}, &stdout
}

func multiResult() *models.MultiRegionResult {
	return &models.MultiRegionResult{
		Message: "Successfully stopped 2 EC2 instances",
		StoppedInstances: []models.InstanceRecord{
			{InstanceID: "i-1", Region: "us-east-1", PreviousState: "running", CurrentState: "stopping", InstanceType: "t3.micro"},
			{InstanceID: "i-2", Region: "us-east-1", PreviousState: "running", CurrentState: "stopping", InstanceType: "t3.micro"},
		},
		TotalRegionsProcessed: 2,
		TotalInstancesStopped: 2,
		FailedRegions:         []models.RegionFailure{{Region: "eu-west-1", Err: errors.New("access denied")}},
	}
}

func TestRunner_StopAll_Table(t *testing.T) {
	r, stdout := newTestRunner(t, outputTable)
	prices := &fakeEstimator{}

	err := r.stopAll(context.Background(), &fakeService{multi: multiResult()}, prices)

	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "i-1")
	assert.Contains(t, out, "i-2")
	assert.Contains(t, out, "## Failed Regions")
	assert.Contains(t, out, "access denied")
	assert.Contains(t, out, "2 instances stopped across 2 regions")
	assert.Contains(t, out, "$730.00")
	assert.Equal(t, 1, prices.calls, "estimates are looked up once per region and type")
}

func TestRunner_StopAll_JSON(t *testing.T) {
	r, stdout := newTestRunner(t, outputJSON)

	err := r.stopAll(context.Background(), &fakeService{multi: multiResult()}, nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"message": "Successfully stopped 2 EC2 instances",
		"stopped_instances": [
			{"InstanceId": "i-1", "Region": "us-east-1", "PreviousState": "running", "CurrentState": "stopping"},
			{"InstanceId": "i-2", "Region": "us-east-1", "PreviousState": "running", "CurrentState": "stopping"}
		],
		"total_regions_processed": 2
	}`, stdout.String())
}

func TestRunner_StopAll_Failure(t *testing.T) {
	r, stdout := newTestRunner(t, outputJSON)

	err := r.stopAll(context.Background(), &fakeService{err: errors.New("boom")}, nil)

	require.ErrorIs(t, err, errExecutionFailed)
	assert.JSONEq(t, `{"error":"Lambda execution failed","message":"boom"}`, stdout.String())
}

func TestRunner_StopOne_Table(t *testing.T) {
	r, stdout := newTestRunner(t, outputTable)
	svc := &fakeService{single: &models.SingleRegionResult{
		Message: "Successfully stopped 1 EC2 instances in region eu-west-1",
		StoppedInstances: []models.InstanceRecord{
			{InstanceID: "i-9", Region: "eu-west-1", PreviousState: "running", CurrentState: "stopping", InstanceType: "unknown.type"},
		},
		Region:                "eu-west-1",
		TotalInstancesStopped: 1,
	}}

	err := r.stopOne(context.Background(), svc, "eu-west-1", &fakeEstimator{})

	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", svc.region)
	out := stdout.String()
	assert.Contains(t, out, "EU (Ireland)")
	assert.Contains(t, out, "i-9")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "1 instances stopped across 1 region")
}

func TestRunner_StopOne_Failure(t *testing.T) {
	r, _ := newTestRunner(t, outputTable)

	err := r.stopOne(context.Background(), &fakeService{err: errors.New("denied")}, "us-east-1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), models.ExecutionFailedLabel)
	assert.Contains(t, err.Error(), "denied")
}
