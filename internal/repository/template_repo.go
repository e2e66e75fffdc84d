package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"minuteshub/internal/fault"
	"minuteshub/internal/model"
)

type TemplateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, t *model.EmailTemplate) (*model.EmailTemplate, error) {
	query := `
        INSERT INTO email_templates (name, type, subject, body, variables)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Name, string(t.Type), t.Subject, t.Body, emptyIfNil(t.Variables),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "insert template", err)
	}
	return t, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *model.EmailTemplate) (*model.EmailTemplate, error) {
	query := `
        UPDATE email_templates
        SET name = $1, type = $2, subject = $3, body = $4, variables = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Name, string(t.Type), t.Subject, t.Body, emptyIfNil(t.Variables), t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFound(fmt.Sprintf("template %d not found", t.ID))
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "update template", err)
	}
	return t, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id int) (*model.EmailTemplate, error) {
	query := `
        SELECT id, name, type, subject, body, variables, created_at, updated_at
        FROM email_templates
        WHERE id = $1
    `
	t, err := scanTemplate(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFound(fmt.Sprintf("template %d not found", id))
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "query template", err)
	}
	return t, nil
}

// GetByType returns the first template of the given type, oldest first, so
// the seeded built-in wins unless the user deleted it.
func (r *TemplateRepository) GetByType(ctx context.Context, typ model.TemplateType) (*model.EmailTemplate, error) {
	query := `
        SELECT id, name, type, subject, body, variables, created_at, updated_at
        FROM email_templates
        WHERE type = $1
        ORDER BY id
        LIMIT 1
    `
	t, err := scanTemplate(r.db.QueryRow(ctx, query, string(typ)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFound(fmt.Sprintf("no template of type %s", typ))
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "query template", err)
	}
	return t, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]model.EmailTemplate, error) {
	query := `
        SELECT id, name, type, subject, body, variables, created_at, updated_at
        FROM email_templates
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "list templates", err)
	}
	defer rows.Close()

	templates := []model.EmailTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fault.Wrap(fault.KindStorage, "scan template", err)
		}
		templates = append(templates, *t)
	}
	if rows.Err() != nil {
		return nil, fault.Wrap(fault.KindStorage, "list templates", rows.Err())
	}
	return templates, nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return false, fault.Wrap(fault.KindStorage, "delete template", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TemplateRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM email_templates`).Scan(&n); err != nil {
		return 0, fault.Wrap(fault.KindStorage, "count templates", err)
	}
	return n, nil
}

func scanTemplate(row pgx.Row) (*model.EmailTemplate, error) {
	var t model.EmailTemplate
	var typ string
	err := row.Scan(&t.ID, &t.Name, &typ, &t.Subject, &t.Body, &t.Variables, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = model.TemplateType(typ)
	if t.Variables == nil {
		t.Variables = []string{}
	}
	return &t, nil
}
