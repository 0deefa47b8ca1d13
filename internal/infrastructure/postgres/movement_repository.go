package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, product_id, branch_id, type, quantity, previous_quantity, new_quantity, reference_type, reference_id, cost_price, notes, movement_date, created_at, created_by`

// Create persiste un movimiento. El orden de la cadena por par lo da la
// columna seq (bigserial), no el timestamp.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	refType := nullIfEmpty(movement.ReferenceType)
	refID := nullIfEmpty(movement.ReferenceID)
	createdBy := nullIfEmpty(movement.CreatedBy)
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.BranchID,
		movement.Type, movement.Quantity, movement.PreviousQuantity, movement.NewQuantity,
		refType, refID, movement.CostPrice, movement.Notes,
		movement.MovementDate, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovementRow(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByBranch lista movimientos de una sucursal en un rango de fechas,
// del más reciente al más antiguo.
func (r *MovementRepo) ListByBranch(ctx context.Context, branchID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listFiltered(ctx, "branch_id", branchID, from, to, limit, offset)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listFiltered(ctx, "product_id", productID, from, to, limit, offset)
}

func (r *MovementRepo) listFiltered(ctx context.Context, column, value string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by %s: %w", column, err)
	}
	return collectMovements(rows)
}

// ChainForPair devuelve la cadena completa del par ordenada por secuencia
// ascendente. Es el camino de reconciliación: puede ser grande, no usarlo en
// consultas calientes.
func (r *MovementRepo) ChainForPair(ctx context.Context, productID, branchID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements WHERE product_id = $1 AND branch_id = $2
		ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, query, productID, branchID)
	if err != nil {
		return nil, fmt.Errorf("chain for pair: %w", err)
	}
	return collectMovements(rows)
}

// ListByReference devuelve los movimientos agrupados por un documento origen
// (compra, transferencia o factura).
func (r *MovementRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements WHERE reference_type = $1 AND reference_id = $2
		ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list by reference: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovementRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovementRow(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var refType, refID, createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ProductID, &m.BranchID, &m.Type,
		&m.Quantity, &m.PreviousQuantity, &m.NewQuantity,
		&refType, &refID, &m.CostPrice, &m.Notes,
		&m.MovementDate, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if refType != nil {
		m.ReferenceType = *refType
	}
	if refID != nil {
		m.ReferenceID = *refID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
