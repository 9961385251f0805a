package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProductGID builds the global id of a product
func ProductGID(productID int64) string {
	return fmt.Sprintf("gid://shopify/Product/%d", productID)
}

// MediaImageGID turns a bare numeric id into a MediaImage global id; global ids pass through
func MediaImageGID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/MediaImage/" + id
}

// NumericID returns the trailing numeric segment of a global id ("gid://shopify/MediaImage/12" -> "12").
// Plain ids are returned trimmed.
func NumericID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// ExtractIDFromGID extracts the numeric ID from a Shopify GID
func ExtractIDFromGID(gid string) (int64, error) {
	n, err := strconv.ParseInt(NumericID(gid), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}
	return n, nil
}

// AttachFiles links existing files to the product. It returns how many files
// Shopify reported back and the messages of any userErrors.
func (c *Client) AttachFiles(ctx context.Context, productID int64, fileIDs []string) (int, []string, error) {
	if len(fileIDs) == 0 {
		return 0, nil, nil
	}
	productGID := ProductGID(productID)
	inputs := make([]FileUpdateInput, 0, len(fileIDs))
	for _, id := range fileIDs {
		inputs = append(inputs, FileUpdateInput{ID: MediaImageGID(id), ReferencesToAdd: []string{productGID}})
	}

	resp, err := c.Execute(ctx, FileUpdateMutation, map[string]interface{}{"input": inputs})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to attach files: %w", err)
	}

	var result struct {
		FileUpdate struct {
			Files []struct {
				ID string `json:"id"`
			} `json:"files"`
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"fileUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return 0, nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var userErrors []string
	for _, ue := range result.FileUpdate.UserErrors {
		userErrors = append(userErrors, ue.Message)
	}
	return len(result.FileUpdate.Files), userErrors, nil
}
