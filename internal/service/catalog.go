package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/storage"
)

// signedURLTTL is how long product image URLs stay valid.
const signedURLTTL = time.Hour

// ProductStore is the persistence surface the catalog service needs.
type ProductStore interface {
	Create(ctx context.Context, product models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	RandomPerCategory(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product models.Product) (*models.Product, error)
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogService handles product lifecycle and search
type CatalogService struct {
	products ProductStore
	media    storage.Store
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductStore, media storage.Store) *CatalogService {
	return &CatalogService{
		products: products,
		media:    media,
	}
}

// Create uploads the product image and then writes the record. The
// image must be durably stored before the record references its key.
func (s *CatalogService) Create(ctx context.Context, req models.ProductRequest, image []byte, filename, contentType string) (*models.Product, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image is required: %w", ErrInvalidInput)
	}
	if req.Price < 0 || req.Quantity < 0 {
		return nil, fmt.Errorf("price and quantity must not be negative: %w", ErrInvalidInput)
	}

	key := fmt.Sprintf("products/%s-%s", uuid.New(), filename)
	if err := s.media.Put(ctx, key, image, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload product image: %w", err)
	}

	product := models.Product{
		Name:             req.Name,
		Category:         req.Category,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Price:            req.Price,
		Quantity:         req.Quantity,
		ImageKey:         key,
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.attachURL(ctx, created)
	return created, nil
}

// Get retrieves a product by ID
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.attachURL(ctx, product)
	return product, nil
}

// List retrieves all products
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	s.attachURLs(ctx, products)
	return products, nil
}

// ListByCategory retrieves all products in a category
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	s.attachURLs(ctx, products)
	return products, nil
}

// Categories retrieves the distinct product categories
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// RandomPerCategory retrieves one random product per category
func (s *CatalogService) RandomPerCategory(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.RandomPerCategory(ctx)
	if err != nil {
		return nil, err
	}

	s.attachURLs(ctx, products)
	return products, nil
}

// Search matches products by name or category, tolerating small typos.
// No hits is reported as not found rather than an empty list.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", ErrInvalidInput)
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []models.Product
	for _, p := range products {
		if fuzzyMatch(p.Name, query) || fuzzyMatch(p.Category, query) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no products match %q: %w", query, repository.ErrNotFound)
	}

	s.attachURLs(ctx, matches)
	return matches, nil
}

// Update replaces a product's fields and optionally its image. The new
// image is uploaded first; the old key is deleted only after the record
// update succeeds, so a partial failure can orphan an object but never
// lose the only copy.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req models.ProductRequest, image []byte, filename, contentType string) (*models.Product, error) {
	if req.Price < 0 || req.Quantity < 0 {
		return nil, fmt.Errorf("price and quantity must not be negative: %w", ErrInvalidInput)
	}

	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	imageKey := existing.ImageKey
	if len(image) > 0 {
		newKey := fmt.Sprintf("products/%s-%s", uuid.New(), filename)
		if err := s.media.Put(ctx, newKey, image, contentType); err != nil {
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
		oldKey = existing.ImageKey
		imageKey = newKey
	}

	updated, err := s.products.Update(ctx, models.Product{
		ID:               id,
		Name:             req.Name,
		Category:         req.Category,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Price:            req.Price,
		Quantity:         req.Quantity,
		ImageKey:         imageKey,
	})
	if err != nil {
		return nil, err
	}

	if oldKey != "" {
		if err := s.media.Delete(ctx, oldKey); err != nil {
			log.Printf("Failed to delete replaced product image %s: %v", oldKey, err)
		}
	}

	s.attachURL(ctx, updated)
	return updated, nil
}

// SetStock sets a product's quantity on hand directly
func (s *CatalogService) SetStock(ctx context.Context, id uuid.UUID, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrInvalidInput)
	}

	product, err := s.products.SetStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	s.attachURL(ctx, product)
	return product, nil
}

// Delete removes the product record and then its stored image
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.media.Delete(ctx, product.ImageKey); err != nil {
		return fmt.Errorf("failed to delete product image: %w", err)
	}

	return nil
}

// Image streams a product's stored image
func (s *CatalogService) Image(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	return s.media.Get(ctx, product.ImageKey)
}

func (s *CatalogService) attachURL(ctx context.Context, product *models.Product) {
	url, err := s.media.SignedURL(ctx, product.ImageKey, signedURLTTL)
	if err != nil {
		log.Printf("Failed to sign URL for %s: %v", product.ImageKey, err)
		return
	}
	product.ImageURL = url
}

func (s *CatalogService) attachURLs(ctx context.Context, products []models.Product) {
	for i := range products {
		s.attachURL(ctx, &products[i])
	}
}
