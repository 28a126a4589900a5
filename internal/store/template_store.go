package store

import (
	"context"
	"fmt"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
)

const templateColumns = `id, user_id, name, description, sections, created_at, updated_at`

type TemplateStore struct {
	db *db.DB
}

func NewTemplateStore(d *db.DB) *TemplateStore {
	return &TemplateStore{db: d}
}

func (s *TemplateStore) Create(ctx context.Context, t *domain.Template) (*domain.Template, error) {
	sections, err := encodeSections(t.Sections)
	if err != nil {
		return nil, storeErr("encode template sections", err)
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO inspection_templates (id, user_id, name, description, sections, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, t.UserID, t.Name, t.Description, sections, ts, ts)
	if err != nil {
		return nil, storeErr("create template", err)
	}

	return s.GetOwned(ctx, id, t.UserID)
}

func (s *TemplateStore) GetOwned(ctx context.Context, id, userID string) (*domain.Template, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+templateColumns+` FROM inspection_templates WHERE id = ? AND user_id = ?
	`), id, userID)

	t, err := scanTemplate(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get template", err)
	}
	return t, nil
}

func (s *TemplateStore) ListByUser(ctx context.Context, userID string) ([]*domain.Template, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+templateColumns+` FROM inspection_templates WHERE user_id = ? ORDER BY name ASC
	`), userID)
	if err != nil {
		return nil, storeErr("list templates", err)
	}
	defer rows.Close()

	templates := []*domain.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, storeErr("scan template", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate templates", err)
	}
	return templates, nil
}

func (s *TemplateStore) Update(ctx context.Context, t *domain.Template) (*domain.Template, error) {
	sections, err := encodeSections(t.Sections)
	if err != nil {
		return nil, storeErr("encode template sections", err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE inspection_templates SET name = ?, description = ?, sections = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`), t.Name, t.Description, sections, now(), t.ID, t.UserID)
	if err != nil {
		return nil, storeErr("update template", err)
	}
	if err := affectedOne(res, "update template"); err != nil {
		return nil, err
	}

	return s.GetOwned(ctx, t.ID, t.UserID)
}

func (s *TemplateStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM inspection_templates WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return storeErr("delete template", err)
	}
	return affectedOne(res, "delete template")
}

func encodeSections(sections []domain.TemplateSection) (string, error) {
	if sections == nil {
		sections = []domain.TemplateSection{}
	}
	for i := range sections {
		if sections[i].Items == nil {
			sections[i].Items = []string{}
		}
	}
	return toJSON(sections)
}

func scanTemplate(sc scanner) (*domain.Template, error) {
	t := &domain.Template{}
	var sections string
	if err := sc.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &sections, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := fromJSON(sections, &t.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return t, nil
}
