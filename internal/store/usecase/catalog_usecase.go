package usecase

import (
	"context"
	"errors"
	"fmt"

	"artdash/internal/shared/logger"
	"artdash/internal/store/config"
	"artdash/internal/store/domain/model"
	"artdash/internal/store/domain/repository"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrMissingTitle       = errors.New("title is required")
	ErrMissingArtist      = errors.New("artist is required")
	ErrInvalidPrice       = errors.New("price must be greater than zero")
	ErrMainImageRequired  = errors.New("main image is required")
	ErrMainImageUpload    = errors.New("main image upload failed")
	ErrGalleryImageUpload = errors.New("gallery image upload failed")
)

// ProductInput carries the create/update payload for a catalog entry. Image
// fields accept hosted URLs or base64 data URLs.
type ProductInput struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Price  float64 `json:"price"`

	PriceRange  string   `json:"priceRange"`
	Dimensions  string   `json:"dimensions"`
	Size        string   `json:"size"`
	Category    string   `json:"category"`
	Medium      string   `json:"medium"`
	Style       string   `json:"style"`
	Subject     string   `json:"subject"`
	Orientation string   `json:"orientation"`
	Country     []string `json:"country"`
	Palette     []string `json:"palette"`

	MainImage   string   `json:"mainImage"`
	SmallImages []string `json:"smallImages"`
	Description string   `json:"description"`
	ArtistBio   string   `json:"artistBio"`
}

// CatalogUsecase manages products and their hosted images.
type CatalogUsecase struct {
	products  repository.ProductRepository
	imageHost repository.ImageHost
	cfg       *config.Config
	log       logger.Logger
}

// NewCatalogUsecase creates a new catalog usecase.
func NewCatalogUsecase(
	products repository.ProductRepository,
	imageHost repository.ImageHost,
	cfg *config.Config,
	log logger.Logger,
) *CatalogUsecase {
	return &CatalogUsecase{
		products:  products,
		imageHost: imageHost,
		cfg:       cfg,
		log:       log,
	}
}

func validateProductInput(in *ProductInput) error {
	if in.Title == "" {
		return ErrMissingTitle
	}
	if in.Artist == "" {
		return ErrMissingArtist
	}
	if in.Price <= 0 {
		return ErrInvalidPrice
	}
	if in.MainImage == "" {
		return ErrMainImageRequired
	}
	return nil
}

// CreateProduct validates the input, resolves every image to a hosted URL and
// persists the product.
func (uc *CatalogUsecase) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := validateProductInput(&in); err != nil {
		return nil, err
	}

	mainURL, err := uc.imageHost.Upload(ctx, in.MainImage)
	if err != nil {
		uc.log.WithContext(ctx).Error("main image upload failed", "error", err)
		return nil, ErrMainImageUpload
	}

	smallURLs, err := uc.uploadGallery(ctx, in.SmallImages)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Title:       in.Title,
		Artist:      in.Artist,
		Price:       in.Price,
		PriceRange:  in.PriceRange,
		Dimensions:  in.Dimensions,
		Size:        in.Size,
		Category:    in.Category,
		Medium:      in.Medium,
		Style:       in.Style,
		Subject:     in.Subject,
		Orientation: in.Orientation,
		Country:     in.Country,
		Palette:     in.Palette,
		MainImage:   mainURL,
		SmallImages: smallURLs,
		Description: in.Description,
		ArtistBio:   in.ArtistBio,
	}

	if err := uc.products.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// ListProducts returns the catalog ordered by popularity.
func (uc *CatalogUsecase) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := uc.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// TopSelling returns the most-clicked products.
func (uc *CatalogUsecase) TopSelling(ctx context.Context) ([]*model.Product, error) {
	products, err := uc.products.TopSelling(ctx, uc.cfg.TopSellingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top products: %w", err)
	}
	return products, nil
}

// ViewProduct fetches a product and counts the view as one click.
func (uc *CatalogUsecase) ViewProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := uc.products.GetAndIncrementClick(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// UpdateProduct applies the input, re-resolving any image that changed.
func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	update := map[string]interface{}{}

	if in.Title != "" {
		update["title"] = in.Title
	}
	if in.Artist != "" {
		update["artist"] = in.Artist
	}
	if in.Price > 0 {
		update["price"] = in.Price
	}
	if in.PriceRange != "" {
		update["priceRange"] = in.PriceRange
	}
	if in.Dimensions != "" {
		update["dimensions"] = in.Dimensions
	}
	if in.Size != "" {
		update["size"] = in.Size
	}
	if in.Category != "" {
		update["category"] = in.Category
	}
	if in.Medium != "" {
		update["medium"] = in.Medium
	}
	if in.Style != "" {
		update["style"] = in.Style
	}
	if in.Subject != "" {
		update["subject"] = in.Subject
	}
	if in.Orientation != "" {
		update["orientation"] = in.Orientation
	}
	if len(in.Country) > 0 {
		update["country"] = in.Country
	}
	if len(in.Palette) > 0 {
		update["palette"] = in.Palette
	}
	if in.Description != "" {
		update["description"] = in.Description
	}
	if in.ArtistBio != "" {
		update["artistBio"] = in.ArtistBio
	}

	if in.MainImage != "" {
		mainURL, err := uc.imageHost.Upload(ctx, in.MainImage)
		if err != nil {
			uc.log.WithContext(ctx).Error("main image upload failed", "error", err)
			return nil, ErrMainImageUpload
		}
		update["mainImage"] = mainURL
	}
	if len(in.SmallImages) > 0 {
		smallURLs, err := uc.uploadGallery(ctx, in.SmallImages)
		if err != nil {
			return nil, err
		}
		update["smallImages"] = smallURLs
	}

	product, err := uc.products.UpdateProduct(ctx, id, update)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.products.DeleteProduct(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return nil
}

func (uc *CatalogUsecase) uploadGallery(ctx context.Context, images []string) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img == "" {
			continue
		}
		u, err := uc.imageHost.Upload(ctx, img)
		if err != nil {
			uc.log.WithContext(ctx).Error("gallery image upload failed", "error", err)
			return nil, ErrGalleryImageUpload
		}
		urls = append(urls, u)
	}
	return urls, nil
}
