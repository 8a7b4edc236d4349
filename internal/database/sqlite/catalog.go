package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

const itemColumns = `item_id, item_name, rarity, star_value, icon_url, image_url, background_url, model_3d_url, item_description`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*domain.Item, error) {
	var item domain.Item
	var rarity string
	err := row.Scan(&item.ID, &item.Name, &rarity, &item.StarValue,
		&item.IconURL, &item.ImageURL, &item.BackgroundURL, &item.Model3DURL, &item.Description)
	if err != nil {
		return nil, err
	}
	item.Rarity = domain.Rarity(rarity)
	return &item, nil
}

func getItem(ctx context.Context, q querier, itemID string) (*domain.Item, error) {
	item, err := scanItem(q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = ?`, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, wrapErr("failed to get item", err)
	}
	return item, nil
}

func getCase(ctx context.Context, q querier, caseID string) (*domain.Case, error) {
	var c domain.Case
	err := q.QueryRowContext(ctx, `SELECT case_id, case_name, price, image_url FROM cases WHERE case_id = ?`, caseID).
		Scan(&c.ID, &c.Name, &c.Price, &c.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
	}
	if err != nil {
		return nil, wrapErr("failed to get case", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT item_id, probability FROM case_items WHERE case_id = ? ORDER BY position`, caseID)
	if err != nil {
		return nil, wrapErr("failed to get case items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.CaseEntry
		if err := rows.Scan(&e.ItemID, &e.Probability); err != nil {
			return nil, wrapErr("failed to scan case item", err)
		}
		c.Entries = append(c.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to get case items", err)
	}
	return &c, nil
}

// ListItems returns every item ordered by ID
func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_id`)
	if err != nil {
		return nil, wrapErr("failed to list items", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("failed to scan item", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItem returns one catalog item
func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return getItem(ctx, s.db, itemID)
}

// ListCases returns every case with its probability table, cheapest first
func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT case_id FROM cases ORDER BY price, case_id`)
	if err != nil {
		return nil, wrapErr("failed to list cases", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, wrapErr("failed to scan case", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to list cases", err)
	}

	cases := make([]domain.Case, 0, len(ids))
	for _, id := range ids {
		c, err := getCase(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *c)
	}
	return cases, nil
}

// GetCase returns one case with its probability table
func (s *Store) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return getCase(ctx, s.db, caseID)
}

type catalogTx struct {
	tx *sql.Tx
}

// BeginCatalogTx starts a transaction for catalog seeding
func (s *Store) BeginCatalogTx(ctx context.Context) (repository.CatalogTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("failed to begin transaction", err)
	}
	return &catalogTx{tx: tx}, nil
}

func (t *catalogTx) UpsertItem(ctx context.Context, item domain.Item) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			item_name = excluded.item_name,
			rarity = excluded.rarity,
			star_value = excluded.star_value,
			icon_url = excluded.icon_url,
			image_url = excluded.image_url,
			background_url = excluded.background_url,
			model_3d_url = excluded.model_3d_url,
			item_description = excluded.item_description
	`, item.ID, item.Name, string(item.Rarity), item.StarValue, item.IconURL, item.ImageURL,
		item.BackgroundURL, item.Model3DURL, item.Description)
	if err != nil {
		return wrapErr("failed to upsert item", err)
	}
	return nil
}

func (t *catalogTx) UpsertCase(ctx context.Context, c domain.Case) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO cases (case_id, case_name, price, image_url)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (case_id) DO UPDATE SET
			case_name = excluded.case_name,
			price = excluded.price,
			image_url = excluded.image_url
	`, c.ID, c.Name, c.Price, c.ImageURL)
	if err != nil {
		return wrapErr("failed to upsert case", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM case_items WHERE case_id = ?`, c.ID); err != nil {
		return wrapErr("failed to clear case items", err)
	}
	for i, e := range c.Entries {
		_, err := t.tx.ExecContext(ctx, `INSERT INTO case_items (case_id, position, item_id, probability) VALUES (?, ?, ?, ?)`,
			c.ID, i, e.ItemID, e.Probability)
		if err != nil {
			return wrapErr("failed to insert case item", err)
		}
	}
	return nil
}

func (t *catalogTx) Commit(ctx context.Context) error {
	return commit(t.tx)
}

func (t *catalogTx) Rollback(ctx context.Context) error {
	return rollback(t.tx)
}
