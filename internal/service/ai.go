package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/ai"
	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/storage"
)

// ModelClient is the external model boundary.
type ModelClient interface {
	AnalyzeRoom(ctx context.Context, roomImage []byte, style string, products []models.Product) (models.CustomizationDoc, error)
	GenerateImage(ctx context.Context, roomImage []byte, style string, products []ai.ProductImage) ([]byte, error)
}

// AIService proxies room analysis and image generation to the external
// model, grounding both on the live catalog.
type AIService struct {
	products ProductStore
	media    storage.Store
	model    ModelClient
}

// NewAIService creates a new AI service
func NewAIService(products ProductStore, media storage.Store, model ModelClient) *AIService {
	return &AIService{
		products: products,
		media:    media,
		model:    model,
	}
}

// AnalyzeRoom sends the room photo and the whole catalog to the model
// and returns its structured product selection.
func (s *AIService) AnalyzeRoom(ctx context.Context, roomImage []byte, style string) (models.CustomizationDoc, error) {
	if len(roomImage) == 0 {
		return nil, fmt.Errorf("room image is required: %w", ErrInvalidInput)
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products available: %w", repository.ErrNotFound)
	}

	return s.model.AnalyzeRoom(ctx, roomImage, style, products)
}

// GeneratedImage is the stored result of a generation call.
type GeneratedImage struct {
	ImageKey string `json:"imageKey"`
	ImageURL string `json:"imageUrl"`
}

// GenerateRoomImage renders the room with the selected products placed
// in it, stores the result, and returns its key and a signed URL.
func (s *AIService) GenerateRoomImage(ctx context.Context, roomImage []byte, style string, productIDs []uuid.UUID) (*GeneratedImage, error) {
	if len(roomImage) == 0 || len(productIDs) == 0 {
		return nil, fmt.Errorf("room image and selected products are required: %w", ErrInvalidInput)
	}

	var inputs []ai.ProductImage
	for _, id := range productIDs {
		product, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}

		body, _, err := s.media.Get(ctx, product.ImageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image for product %s: %w", product.Name, err)
		}
		data, err := io.ReadAll(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read image for product %s: %w", product.Name, err)
		}

		inputs = append(inputs, ai.ProductImage{
			Description: fmt.Sprintf("%s (%s), %s", product.Name, product.Category, product.ShortDescription),
			Image:       data,
		})
	}

	generated, err := s.model.GenerateImage(ctx, roomImage, style, inputs)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("generated/%s.png", uuid.New())
	if err := s.media.Put(ctx, key, generated, "image/png"); err != nil {
		return nil, fmt.Errorf("failed to store generated image: %w", err)
	}

	url, err := s.media.SignedURL(ctx, key, signedURLTTL)
	if err != nil {
		log.Printf("Failed to sign URL for %s: %v", key, err)
	}

	return &GeneratedImage{ImageKey: key, ImageURL: url}, nil
}
