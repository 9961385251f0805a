package shopify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// Image is a product image as returned inside the product resource
type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Position  int    `json:"position"`
	Src       string `json:"src"`
	CreatedAt string `json:"created_at"`
}

// DeleteProductImage removes one image from a product
func (c *Client) DeleteProductImage(ctx context.Context, productID, imageID int64) error {
	path := fmt.Sprintf("products/%d/images/%d.json", productID, imageID)
	if _, err := c.REST(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("failed to delete image %d: %w", imageID, err)
	}
	return nil
}

// UploadProductImage uploads raw image bytes as a base64 attachment and returns the new image id
func (c *Client) UploadProductImage(ctx context.Context, productID int64, filename string, content []byte) (int64, error) {
	body := map[string]interface{}{
		"image": map[string]interface{}{
			"attachment": base64.StdEncoding.EncodeToString(content),
			"filename":   filename,
		},
	}
	resp, err := c.REST(ctx, http.MethodPost, fmt.Sprintf("products/%d/images.json", productID), body)
	if err != nil {
		return 0, fmt.Errorf("failed to upload image %s: %w", filename, err)
	}
	return decodeCreatedMediaID(resp.Body)
}

// UploadProductVideo uploads a video through the product media endpoint
func (c *Client) UploadProductVideo(ctx context.Context, productID int64, filename, contentType string, content []byte) (int64, error) {
	body := map[string]interface{}{
		"media": map[string]interface{}{
			"attachment":   base64.StdEncoding.EncodeToString(content),
			"filename":     filename,
			"content_type": contentType,
			"media_type":   "video",
		},
	}
	resp, err := c.REST(ctx, http.MethodPost, fmt.Sprintf("products/%d/media.json", productID), body)
	if err != nil {
		return 0, fmt.Errorf("failed to upload video %s: %w", filename, err)
	}
	return decodeCreatedMediaID(resp.Body)
}

func decodeCreatedMediaID(body []byte) (int64, error) {
	var created struct {
		Image *struct {
			ID int64 `json:"id"`
		} `json:"image"`
		Media *struct {
			ID int64 `json:"id"`
		} `json:"media"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return 0, fmt.Errorf("failed to decode upload response: %w", err)
	}
	switch {
	case created.Image != nil && created.Image.ID != 0:
		return created.Image.ID, nil
	case created.Media != nil && created.Media.ID != 0:
		return created.Media.ID, nil
	}
	return 0, fmt.Errorf("upload response has no media id: %s", truncate(string(body), 300))
}

// SetImagePosition moves an image to a 1-based position
func (c *Client) SetImagePosition(ctx context.Context, productID, imageID int64, position int) error {
	body := map[string]interface{}{
		"image": map[string]interface{}{
			"id":       imageID,
			"position": position,
		},
	}
	if _, err := c.REST(ctx, http.MethodPut, fmt.Sprintf("products/%d/images/%d.json", productID, imageID), body); err != nil {
		return fmt.Errorf("failed to move image %d to position %d: %w", imageID, position, err)
	}
	return nil
}
