package gemini

import (
	"context"

	"mentorlab/internal/logging"

	"google.golang.org/genai"
)

// pixelArtStylePrefix is prepended to every art prompt so generated images
// share a consistent style regardless of how the prompt is phrased.
const pixelArtStylePrefix = "Pixel art style, 16-bit, detailed, vibrant colors, of: "

// GeneratePixelArt renders the user's prompt as a single PNG through the
// Imagen model. Returns the raw image bytes.
func (c *Client) GeneratePixelArt(ctx context.Context, userPrompt string) ([]byte, error) {
	prompt := pixelArtStylePrefix + userPrompt

	timer := logging.StartTimer(logging.CategoryAPI, "generate pixel art")
	defer timer.Stop()

	resp, err := c.ai.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		ce := Classify(err, ContextImage, c.imageModel)
		c.reportIfAuth(ce)
		logging.APIError("imagen failed: %v", ce)
		return nil, ce
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, &Error{
			Kind:    KindModel,
			Message: "No image data was returned by Imagen. The prompt might have been disallowed or an unknown issue occurred.",
		}
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
