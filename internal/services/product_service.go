package services

import (
	"errors"
	"fmt"
	"strings"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
)

// ProductService handles business logic related to the menu.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves the whole menu.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// SearchProducts filters the menu by category and a name keyword. Both are
// optional.
func (s *ProductService) SearchProducts(category, keyword string) ([]models.Product, error) {
	return s.repo.Search(strings.TrimSpace(category), strings.TrimSpace(keyword))
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	return product, nil
}

// CreateProduct adds a product to the menu.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.repo.Update(product); err != nil {
		return mapNotFound(err, ErrProductNotFound)
	}
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return mapNotFound(err, ErrProductNotFound)
	}
	return nil
}

func validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if product.Price.IsNegative() || product.CostPrice.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if product.StockQuantity < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}

// mapNotFound swaps a repository not-found error for the service's own
// sentinel, keeping the original message.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}
