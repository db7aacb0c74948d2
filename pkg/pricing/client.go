package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

// APIRegion is where the AWS Pricing API is served from.
// The API is only available in us-east-1 and ap-south-1.
const APIRegion = "us-east-1"

const lookupTimeout = 5 * time.Second

// GetProductsAPI is the subset of the Pricing API used here
type GetProductsAPI interface {
	GetProducts(
		ctx context.Context,
		params *pricing.GetProductsInput,
		optFns ...func(*pricing.Options),
	) (*pricing.GetProductsOutput, error)
}

// Client looks up EC2 on-demand prices and caches them per region and type
type Client struct {
	api GetProductsAPI

	mu    sync.Mutex
	cache map[string]float64
	stats Stats
}

// NewClient creates a pricing client from an AWS config, pinned to APIRegion
func NewClient(cfg aws.Config) *Client {
	return NewClientWithAPI(pricing.NewFromConfig(cfg, func(o *pricing.Options) {
		o.Region = APIRegion
	}))
}

// NewClientWithAPI wraps an existing GetProductsAPI implementation
func NewClientWithAPI(api GetProductsAPI) *Client {
	return &Client{
		api:   api,
		cache: make(map[string]float64),
	}
}

// Estimate returns the hourly on-demand Linux price of instanceType in region.
// Lookup failures are reported through SourceNA with a zero price.
func (c *Client) Estimate(ctx context.Context, instanceType, region string) (Estimate, error) {
	estimate := Estimate{InstanceType: instanceType, Region: region, Source: SourceNA}
	cacheKey := fmt.Sprintf("%s:%s", region, instanceType)

	c.mu.Lock()
	if price, ok := c.cache[cacheKey]; ok {
		c.stats.CacheHits++
		c.mu.Unlock()
		estimate.HourlyPrice = price
		estimate.Source = SourceCache
		return estimate, nil
	}
	c.mu.Unlock()

	price, err := c.lookup(ctx, instanceType, region)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.stats.Failures++
		return estimate, err
	}
	c.stats.APICalls++
	c.cache[cacheKey] = price

	estimate.HourlyPrice = price
	estimate.Source = SourceAPI
	return estimate, nil
}

// Stats returns a copy of the lookup counters
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Client) lookup(ctx context.Context, instanceType, region string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	// EC2 Linux on-demand, shared tenancy
	filters := []types.Filter{
		termMatch("instanceType", instanceType),
		termMatch("regionCode", region),
		termMatch("operatingSystem", "Linux"),
		termMatch("tenancy", "Shared"),
		termMatch("preInstalledSw", "NA"),
		termMatch("capacitystatus", "Used"),
	}

	resp, err := c.api.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	})
	if err != nil {
		return 0, fmt.Errorf("error calling AWS Pricing API: %w", err)
	}

	if len(resp.PriceList) == 0 {
		return 0, fmt.Errorf("no pricing found for %s in region %s", instanceType, region)
	}

	return ExtractOnDemandPrice(resp.PriceList[0])
}

func termMatch(field, value string) types.Filter {
	return types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}
