package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/repository/base"
)

type CustomerRepository struct {
	*base.Repository
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the customer or nil.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	query := `SELECT id, name, email, created_at FROM customers WHERE id = $1`

	var c model.Customer
	err := r.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by id: %w", err)
	}
	return &c, nil
}

// ChildrenByIDs returns the children for the given ids, preserving only
// those that exist.
func (r *CustomerRepository) ChildrenByIDs(ctx context.Context, ids []int64) ([]*model.Child, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, customer_id, name, birth_date, created_at
		FROM children
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get children by ids: %w", err)
	}
	defer rows.Close()

	var children []*model.Child
	for rows.Next() {
		var ch model.Child
		if err := rows.Scan(&ch.ID, &ch.CustomerID, &ch.Name, &ch.BirthDate, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, &ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children: %w", err)
	}
	return children, nil
}
