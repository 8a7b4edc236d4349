package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

const itemColumns = `item_id, item_name, rarity, star_value, icon_url, image_url, background_url, model_3d_url, item_description`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(&item.ID, &item.Name, &item.Rarity, &item.StarValue,
		&item.IconURL, &item.ImageURL, &item.BackgroundURL, &item.Model3DURL, &item.Description)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func getItem(ctx context.Context, q querier, itemID string) (*domain.Item, error) {
	item, err := scanItem(q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = $1`, itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, wrapErr(ErrMsgGetItem, err)
	}
	return item, nil
}

func getCase(ctx context.Context, q querier, caseID string) (*domain.Case, error) {
	var c domain.Case
	err := q.QueryRow(ctx, `SELECT case_id, case_name, price, image_url FROM cases WHERE case_id = $1`, caseID).
		Scan(&c.ID, &c.Name, &c.Price, &c.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
	}
	if err != nil {
		return nil, wrapErr(ErrMsgGetCase, err)
	}

	rows, err := q.Query(ctx, `SELECT item_id, probability FROM case_items WHERE case_id = $1 ORDER BY position`, caseID)
	if err != nil {
		return nil, wrapErr(ErrMsgGetCase, err)
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.CaseEntry
		if err := rows.Scan(&e.ItemID, &e.Probability); err != nil {
			return nil, wrapErr(ErrMsgGetCase, err)
		}
		c.Entries = append(c.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ErrMsgGetCase, err)
	}
	return &c, nil
}

// ListItems returns every item ordered by ID
func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_id`)
	if err != nil {
		return nil, wrapErr(ErrMsgListItems, err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr(ErrMsgListItems, err)
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
	rows, err := s.db.Query(ctx, `
		SELECT c.case_id, c.case_name, c.price, c.image_url, ci.item_id, ci.probability
		FROM cases c
		LEFT JOIN case_items ci ON ci.case_id = c.case_id
		ORDER BY c.price, c.case_id, ci.position
	`)
	if err != nil {
		return nil, wrapErr(ErrMsgListCases, err)
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		var (
			c      domain.Case
			itemID *string
			prob   *float64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Price, &c.ImageURL, &itemID, &prob); err != nil {
			return nil, wrapErr(ErrMsgListCases, err)
		}
		if n := len(cases); n == 0 || cases[n-1].ID != c.ID {
			cases = append(cases, c)
		}
		if itemID != nil && prob != nil {
			last := &cases[len(cases)-1]
			last.Entries = append(last.Entries, domain.CaseEntry{ItemID: *itemID, Probability: *prob})
		}
	}
	return cases, rows.Err()
}

// GetCase returns one case with its probability table
func (s *Store) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return getCase(ctx, s.db, caseID)
}

type catalogTx struct {
	tx pgx.Tx
}

// BeginCatalogTx starts a transaction for catalog seeding
func (s *Store) BeginCatalogTx(ctx context.Context) (repository.CatalogTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, wrapErr(ErrMsgBeginTx, err)
	}
	return &catalogTx{tx: tx}, nil
}

func (t *catalogTx) UpsertItem(ctx context.Context, item domain.Item) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (item_id) DO UPDATE SET
			item_name = EXCLUDED.item_name,
			rarity = EXCLUDED.rarity,
			star_value = EXCLUDED.star_value,
			icon_url = EXCLUDED.icon_url,
			image_url = EXCLUDED.image_url,
			background_url = EXCLUDED.background_url,
			model_3d_url = EXCLUDED.model_3d_url,
			item_description = EXCLUDED.item_description,
			updated_at = NOW()
	`, item.ID, item.Name, item.Rarity, item.StarValue, item.IconURL, item.ImageURL,
		item.BackgroundURL, item.Model3DURL, item.Description)
	if err != nil {
		return wrapErr(ErrMsgUpsertItem, err)
	}
	return nil
}

func (t *catalogTx) UpsertCase(ctx context.Context, c domain.Case) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO cases (case_id, case_name, price, image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (case_id) DO UPDATE SET
			case_name = EXCLUDED.case_name,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
	`, c.ID, c.Name, c.Price, c.ImageURL)
	if err != nil {
		return wrapErr(ErrMsgUpsertCase, err)
	}

	if _, err := t.tx.Exec(ctx, `DELETE FROM case_items WHERE case_id = $1`, c.ID); err != nil {
		return wrapErr(ErrMsgUpsertCase, err)
	}

	batch := &pgx.Batch{}
	for i, e := range c.Entries {
		batch.Queue(`INSERT INTO case_items (case_id, position, item_id, probability) VALUES ($1, $2, $3, $4)`,
			c.ID, i, e.ItemID, e.Probability)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrapErr(ErrMsgUpsertCase, err)
	}
	return nil
}

func (t *catalogTx) Commit(ctx context.Context) error {
	return commit(ctx, t.tx)
}

func (t *catalogTx) Rollback(ctx context.Context) error {
	return rollback(ctx, t.tx)
}
