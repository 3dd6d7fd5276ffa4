package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"
)

// GenerateImage asks the image model for a single square illustration and
// returns it as an inline data URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}

	if len(result.GeneratedImages) == 0 || result.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("no image was generated")
	}

	encoded := base64.StdEncoding.EncodeToString(result.GeneratedImages[0].Image.ImageBytes)
	return "data:image/jpeg;base64," + encoded, nil
}
