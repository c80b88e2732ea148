package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minsukang/storelink-backend/internal/inventory"
	"github.com/minsukang/storelink-backend/pkg/db/models"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
)

// Service manages catalog listings and connects them to stock tracking.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
	AddOptionGroup(ctx context.Context, productID uuid.UUID, name string) (*models.OptionGroup, error)
	AddOption(ctx context.Context, input AddOptionInput) (*models.Option, error)
	SetProductActive(ctx context.Context, id uuid.UUID, active bool) error

	EnableStockTracking(ctx context.Context, input EnableStockTrackingInput) (*models.Inventory, error)
}

// CreateProductInput captures a new listing.
type CreateProductInput struct {
	StoreID uuid.UUID
	Name    string
	Price   decimal.Decimal
}

// AddOptionInput attaches an option, optionally with a price surcharge.
type AddOptionInput struct {
	OptionGroupID uuid.UUID
	Name          string
	Price         *decimal.Decimal
}

// EnableStockTrackingInput opens a ledger row for a product or one of its
// options. A nil OptionID tracks stock at product level.
type EnableStockTrackingInput struct {
	ProductID       uuid.UUID
	OptionID        *uuid.UUID
	InitialQuantity int
}

type service struct {
	repo      *Repository
	inventory inventory.Service
}

// NewService wires the catalog service.
func NewService(repo *Repository, inventorySvc inventory.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &service{repo: repo, inventory: inventorySvc}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	product := &models.Product{
		StoreID:  input.StoreID,
		Name:     input.Name,
		Price:    input.Price,
		IsActive: true,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *service) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	return s.repo.ListProductsByStore(ctx, storeID)
}

func (s *service) AddOptionGroup(ctx context.Context, productID uuid.UUID, name string) (*models.OptionGroup, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "option group name is required")
	}
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	group := &models.OptionGroup{ProductID: productID, Name: name}
	if err := s.repo.CreateOptionGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) AddOption(ctx context.Context, input AddOptionInput) (*models.Option, error) {
	if input.OptionGroupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "option group id is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "option name is required")
	}

	option := &models.Option{OptionGroupID: input.OptionGroupID, Name: input.Name}
	if err := s.repo.CreateOption(ctx, option); err != nil {
		return nil, err
	}
	if input.Price != nil {
		price := &models.OptionPrice{OptionID: option.ID, Price: *input.Price}
		if err := s.repo.CreateOptionPrice(ctx, price); err != nil {
			return nil, err
		}
		option.Prices = append(option.Prices, *price)
	}
	return option, nil
}

func (s *service) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.SetProductActive(ctx, id, active)
}

// EnableStockTracking opens the ledger row the inventory subsystem mutates from
// then on. The product, and the option when given, must exist first.
func (s *service) EnableStockTracking(ctx context.Context, input EnableStockTrackingInput) (*models.Inventory, error) {
	if _, err := s.repo.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if input.OptionID != nil {
		if _, err := s.repo.GetOptionForProduct(ctx, input.ProductID, *input.OptionID); err != nil {
			return nil, err
		}
	}
	return s.inventory.CreateInventory(ctx, input.ProductID, input.OptionID, input.InitialQuantity)
}
