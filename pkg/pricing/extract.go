package pricing

import (
	"fmt"
	"strconv"

	"github.com/younsl/ec2stop/pkg/utils"
)

// ExtractOnDemandPrice extracts the USD on-demand price from a price list entry
func ExtractOnDemandPrice(priceJSON string) (float64, error) {
	priceData, err := utils.ParseJSON(priceJSON)
	if err != nil {
		return 0, fmt.Errorf("error parsing pricing data: %w", err)
	}

	// terms.OnDemand.<sku>.priceDimensions.<dimension>.pricePerUnit.USD
	terms, ok := priceData["terms"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("terms field not found or invalid")
	}

	onDemand, ok := terms["OnDemand"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("OnDemand field not found or invalid")
	}

	skuOffer, err := utils.GetFirstMapValue(onDemand)
	if err != nil {
		return 0, fmt.Errorf("no SKU offer found")
	}

	skuOfferMap, ok := skuOffer.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("SKU offer is not a map")
	}

	priceDimensions, ok := skuOfferMap["priceDimensions"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("priceDimensions field not found or invalid")
	}

	dimension, err := utils.GetFirstMapValue(priceDimensions)
	if err != nil {
		return 0, fmt.Errorf("no price dimension found")
	}

	dimensionMap, ok := dimension.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("price dimension is not a map")
	}

	usd, err := utils.GetNestedString(dimensionMap, "pricePerUnit", "USD")
	if err != nil {
		return 0, fmt.Errorf("USD price not found or invalid: %w", err)
	}

	price, err := strconv.ParseFloat(usd, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing price: %w", err)
	}

	return price, nil
}
