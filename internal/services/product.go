package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aymenbt/minishop/internal/api/middleware"
	"github.com/aymenbt/minishop/internal/cache"
	appErrors "github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/models"
	repository "github.com/aymenbt/minishop/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	productListCacheKey = "products:all"
	productCacheKeyFmt  = "product:%s"
	productCacheDefault = 0 // 0 falls back to the cache's configured TTL
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	SeedProducts(ctx context.Context) error
}

type productService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache) ProductService {
	return &productService{
		repo:      repo,
		cache:     cache,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		Title: s.sanitizer.Sanitize(req.Title),
		Image: req.Image,
		Price: req.Price,
		Stock: req.Stock,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	s.invalidate(ctx, product.ID)

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	key := fmt.Sprintf(productCacheKeyFmt, id)

	var cached models.Product

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache read failed", slog.Any("error", err))
	}

	if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ProductNotFoundError("Product not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, productCacheDefault); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache write failed", slog.Any("error", err))
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ProductNotFoundError("Product not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.Title != nil {
		product.Title = s.sanitizer.Sanitize(*req.Title)
	}

	if req.Image != nil {
		product.Image = *req.Image
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, product.ID)

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]models.Product, error) {

	var cached []models.Product

	found, err := s.cache.Get(ctx, productListCacheKey, &cached)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache read failed", slog.Any("error", err))
	}

	if found {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	if err := s.cache.Set(ctx, productListCacheKey, products, productCacheDefault); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache write failed", slog.Any("error", err))
	}

	return products, nil
}

// SeedProducts inserts the demo catalog, once, when the table is empty.
func (s *productService) SeedProducts(ctx context.Context) error {

	logger := middleware.LoggerFromContext(ctx)

	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return appErrors.DatabaseError("Failed to count products").WithError(err)
	}

	if count > 0 {
		logger.Debug("Catalog already seeded", slog.Int("products", count))

		return nil
	}

	seed := []models.Product{
		{
			Title: "Laptop hp",
			Image: "https://i5.walmartimages.com/seo/HP-15-6-Ryzen-5-8GB-256GB-Laptop-Rose-Gold_36809cf3-480b-47a5-94f0-e1d5e70c58c0_3.fcc0d6494b0e279a13c32c80c28abfa3.jpeg",
			Price: 10000,
			Stock: 10,
		},
		{
			Title: "Assos hp",
			Image: "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcRi8R6gtPpXb9i_6LYOX1K0ynOOrVOJzrl-Mw&s",
			Price: 25000,
			Stock: 15,
		},
		{
			Title: "Dell hp",
			Image: "https://spacenet.tn/53335-large_default/pc-portable-dell-inspiron-3501i3-1005g18go1tonoir3501i3n-1t-8.jpg",
			Price: 40000,
			Stock: 4,
		},
	}

	for i := range seed {
		if err := s.repo.CreateProduct(ctx, &seed[i]); err != nil {
			return appErrors.DatabaseError("Failed to seed products").WithError(err)
		}
	}

	logger.Info("Catalog seeded", slog.Int("products", len(seed)))

	return nil
}

// invalidate drops both the list entry and the single-product entry;
// best effort, readers fall through to the database.
func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {

	logger := middleware.LoggerFromContext(ctx)

	if err := s.cache.Delete(ctx, productListCacheKey); err != nil {
		logger.Warn("Product cache invalidation failed", slog.String("key", productListCacheKey), slog.Any("error", err))
	}

	key := fmt.Sprintf(productCacheKeyFmt, id)

	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Warn("Product cache invalidation failed", slog.String("key", key), slog.Any("error", err))
	}
}
