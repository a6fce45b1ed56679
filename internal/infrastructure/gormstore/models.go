package gormstore

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

type categoryRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	NameFold    string `gorm:"size:100;not null;default:'';index"`
	Description string `gorm:"type:text;not null"`
	Version     int64  `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (categoryRecord) TableName() string { return "categories" }

type productRecord struct {
	ID           int64               `gorm:"primaryKey;autoIncrement"`
	Name         string              `gorm:"size:255;not null"`
	NameFold     string              `gorm:"size:255;not null;default:'';index"`
	Description  string              `gorm:"type:text;not null"`
	SalePrice    decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	PurchaseCost decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Stock        int                 `gorm:"not null;index"`
	State        string              `gorm:"size:20;not null;index"`
	CategoryID   int64               `gorm:"not null;index"`
	Category     *categoryRecord     `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Version      int64               `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (productRecord) TableName() string { return "products" }

func toCategoryRecord(c *entity.Category) *categoryRecord {
	return &categoryRecord{
		ID:          c.ID,
		Name:        c.Name,
		NameFold:    foldName(c.Name),
		Description: c.Description,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r *categoryRecord) toEntity() *entity.Category {
	return &entity.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toProductRecord(p *entity.Product) *productRecord {
	return &productRecord{
		ID:           p.ID,
		Name:         p.Name,
		NameFold:     foldName(p.Name),
		Description:  p.Description,
		SalePrice:    p.SalePrice,
		PurchaseCost: p.PurchaseCost,
		Stock:        p.Stock,
		State:        string(p.State),
		CategoryID:   p.CategoryID,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *productRecord) toEntity() *entity.Product {
	return &entity.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		SalePrice:    r.SalePrice,
		PurchaseCost: r.PurchaseCost,
		Stock:        r.Stock,
		State:        entity.ProductState(r.State),
		CategoryID:   r.CategoryID,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// foldName normaliza mayúsculas Unicode (É -> é) para la búsqueda por nombre;
// LOWER() de SQLite solo pliega ASCII.
func foldName(s string) string {
	return cases.Fold().String(s)
}
