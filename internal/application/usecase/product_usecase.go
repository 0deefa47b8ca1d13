package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock y el costo se
// manejan exclusivamente vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	stockRepo repository.StockLevelRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, stockRepo repository.StockLevelRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, stockRepo: stockRepo}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetByCompanyAndSKU(ctx, companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "und"
	}
	now := time.Now()
	product := &entity.Product{
		ID:                 uuid.New().String(),
		CompanyID:          companyID,
		SKU:                in.SKU,
		Name:               in.Name,
		Description:        in.Description,
		IsInventoryTracked: in.IsInventoryTracked,
		UnitMeasure:        in.UnitMeasure,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID, validando tenencia.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// Update actualiza los metadatos de un producto. No toca stock, costo ni el
// flag de seguimiento (ver SetTracked).
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SetTracked cambia el flag de seguimiento de inventario. Encender siempre
// está permitido; apagar se rechaza mientras el producto tenga stock
// distinto de cero en alguna sucursal, para no dejar cantidades huérfanas
// fuera del libro.
func (uc *ProductUseCase) SetTracked(ctx context.Context, companyID, id string, tracked bool) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if product.IsInventoryTracked == tracked {
		return toProductResponse(product), nil
	}
	if !tracked {
		nonZero, err := uc.stockRepo.AnyNonZeroByProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if nonZero {
			return nil, domain.ErrConflict
		}
	}
	if err := uc.repo.SetInventoryTracked(ctx, id, tracked); err != nil {
		return nil, err
	}
	product.IsInventoryTracked = tracked
	product.UpdatedAt = time.Now()
	return toProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                 p.ID,
		CompanyID:          p.CompanyID,
		SKU:                p.SKU,
		Name:               p.Name,
		Description:        p.Description,
		IsInventoryTracked: p.IsInventoryTracked,
		UnitMeasure:        p.UnitMeasure,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
