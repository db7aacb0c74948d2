package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/younsl/ec2stop/internal/models"
	"github.com/younsl/ec2stop/pkg/utils"
)

// InstanceStateRunning is the only source state eligible for a stop request
const InstanceStateRunning = string(types.InstanceStateNameRunning)

// EC2API is the subset of the EC2 API used to find and stop instances
type EC2API interface {
	DescribeRegions(
		ctx context.Context,
		params *ec2.DescribeRegionsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeRegionsOutput, error)
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
	StopInstances(
		ctx context.Context,
		params *ec2.StopInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.StopInstancesOutput, error)
}

// EC2Client struct for EC2 client
type EC2Client struct {
	client EC2API
	region string
}

// LoadConfig loads the default AWS configuration.
// An empty region keeps whatever the default chain resolves (AWS_REGION in Lambda).
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config: %w", err)
	}
	return cfg, nil
}

// NewEC2Client creates a new EC2Client bound to region
func NewEC2Client(cfg aws.Config, region string) *EC2Client {
	client := ec2.NewFromConfig(cfg, func(o *ec2.Options) {
		if region != "" {
			o.Region = region
		}
	})
	if region == "" {
		region = cfg.Region
	}
	return NewEC2ClientWithAPI(client, region)
}

// NewEC2ClientWithAPI wraps an existing EC2API implementation
func NewEC2ClientWithAPI(api EC2API, region string) *EC2Client {
	return &EC2Client{
		client: api,
		region: region,
	}
}

// Region returns the region the client is bound to
func (c *EC2Client) Region() string {
	return c.region
}

// ListRegions returns the names of every region enabled for the account
func (c *EC2Client) ListRegions(ctx context.Context) ([]string, error) {
	result, err := c.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("error describing regions: %w", err)
	}

	regions := make([]string, 0, len(result.Regions))
	for _, region := range result.Regions {
		if name := aws.ToString(region.RegionName); name != "" {
			regions = append(regions, name)
		}
	}
	return regions, nil
}

// GetRunningInstances returns every instance in the running state
func (c *EC2Client) GetRunningInstances(ctx context.Context) ([]models.RunningInstance, error) {
	filter := types.Filter{
		Name:   aws.String("instance-state-name"),
		Values: []string{InstanceStateRunning},
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{filter},
	}

	instances := []models.RunningInstance{}

	paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, models.RunningInstance{
					InstanceID:   aws.ToString(instance.InstanceId),
					Name:         utils.GetName(instance.Tags),
					InstanceType: string(instance.InstanceType),
					Region:       c.region,
				})
			}
		}
	}

	return instances, nil
}

// StopInstances requests a stop for the given instance IDs and returns the
// state transitions reported by EC2
func (c *EC2Client) StopInstances(ctx context.Context, instanceIDs []string) ([]models.InstanceRecord, error) {
	if len(instanceIDs) == 0 {
		return []models.InstanceRecord{}, nil
	}

	result, err := c.client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: instanceIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("error stopping EC2 instances: %w", err)
	}

	records := make([]models.InstanceRecord, 0, len(result.StoppingInstances))
	for _, change := range result.StoppingInstances {
		records = append(records, models.InstanceRecord{
			InstanceID:    aws.ToString(change.InstanceId),
			Region:        c.region,
			PreviousState: stateName(change.PreviousState),
			CurrentState:  stateName(change.CurrentState),
		})
	}

	return records, nil
}

func stateName(state *types.InstanceState) string {
	if state == nil {
		return ""
	}
	return string(state.Name)
}

// ErrorCode returns the AWS API error code wrapped in err, or an empty string
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
