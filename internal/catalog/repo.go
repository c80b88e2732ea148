package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukang/storelink-backend/pkg/db/models"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateStore(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert store")
	}
	return nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return nil
}

// GetProduct loads the product with its option tree.
func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("OptionGroups.Options.Prices").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}

func (r *Repository) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (r *Repository) CreateOptionGroup(ctx context.Context, group *models.OptionGroup) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert option group")
	}
	return nil
}

func (r *Repository) CreateOption(ctx context.Context, option *models.Option) error {
	if err := r.db.WithContext(ctx).Create(option).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert option")
	}
	return nil
}

func (r *Repository) CreateOptionPrice(ctx context.Context, price *models.OptionPrice) error {
	if err := r.db.WithContext(ctx).Create(price).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert option price")
	}
	return nil
}

// GetOptionForProduct verifies that the option belongs to one of the product's
// option groups before stock tracking attaches to it.
func (r *Repository) GetOptionForProduct(ctx context.Context, productID, optionID uuid.UUID) (*models.Option, error) {
	var option models.Option
	err := r.db.WithContext(ctx).
		Joins("JOIN option_groups ON option_groups.id = options.option_group_id").
		Where("options.id = ? AND option_groups.product_id = ?", optionID, productID).
		First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option not found for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load option")
	}
	return &option, nil
}

// SetProductActive flips listing visibility without touching stock.
func (r *Repository) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update product visibility")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
