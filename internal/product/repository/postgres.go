package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/jmoiron/sqlx"
)

const selectProducts = `
	SELECT p.id, p.name, p.sku,
	       COALESCE(c.name, '') AS category,
	       COALESCE(s.name, '') AS subcategory,
	       p.price, p.discount_percent, p.tax_percent, p.unit,
	       p.image_url, p.description
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN subcategories s ON s.id = p.subcategory_id
`

// PGRepository reads the catalog straight from the catalog database. It is
// the alternative to the catalog service for deployments that share it.
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, selectProducts+` ORDER BY p.id`); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, selectProducts+` WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, product.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) Update(ctx context.Context, id int64, u *model.ProductUpdate) (*model.Product, error) {
	query := `
        UPDATE products
        SET name = :name,
            price = :price,
            tax_percent = :tax_percent,
            discount_percent = :discount_percent,
            unit = :unit,
            description = :description,
            image_url = :image_url
        WHERE id = :id
    `
	args := map[string]any{
		"id":               id,
		"name":             u.Name,
		"price":            u.Price,
		"tax_percent":      u.TaxPercent,
		"discount_percent": u.DiscountPercent,
		"unit":             u.Unit,
		"description":      u.Description,
		"image_url":        u.ImageURL,
	}
	res, err := r.DB.NamedExecContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, product.ErrProductNotFound
	}
	return r.FindByID(ctx, id)
}
