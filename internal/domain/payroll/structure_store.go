package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StructureSource supplies the institution's current payslip
// structure. The orchestrator consults it on every render so payslips
// always reflect the latest configuration.
type StructureSource interface {
	Current(ctx context.Context) (Structure, error)
}

// StructureFunc adapts a plain function to a StructureSource.
type StructureFunc func(ctx context.Context) (Structure, error)

func (f StructureFunc) Current(ctx context.Context) (Structure, error) {
	return f(ctx)
}

// StructureStore keeps payslip structures in Postgres as JSONB. The
// newest row wins; when none is configured the built-in default
// template applies.
type StructureStore struct {
	DB *pgxpool.Pool
}

func NewStructureStore(db *pgxpool.Pool) *StructureStore {
	return &StructureStore{DB: db}
}

func (s *StructureStore) Current(ctx context.Context) (Structure, error) {
	var raw []byte
	err := s.DB.QueryRow(ctx, `
    SELECT config_json
    FROM payslip_structures
    ORDER BY created_at DESC
    LIMIT 1
  `).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultStructure(), nil
	}
	if err != nil {
		return Structure{}, err
	}

	var structure Structure
	if err := json.Unmarshal(raw, &structure); err != nil {
		return Structure{}, fmt.Errorf("decode payslip structure: %w", err)
	}
	if err := structure.Validate(); err != nil {
		return Structure{}, fmt.Errorf("stored payslip structure: %w", err)
	}
	return structure, nil
}

// Save validates and persists a new structure version.
func (s *StructureStore) Save(ctx context.Context, structure Structure) (string, error) {
	if err := structure.Validate(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(structure)
	if err != nil {
		return "", err
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO payslip_structures (config_json)
    VALUES ($1)
    RETURNING id
  `, raw).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
