package sqlite

import (
	"context"
	"database/sql"

	"github.com/dekarrin/chatmacro/internal/catalog"
)

type MapsDB struct {
	db *sql.DB
}

func (repo *MapsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS maps (
		id INTEGER NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		map_min_x REAL NOT NULL,
		map_min_y REAL NOT NULL,
		map_max_x REAL NOT NULL,
		map_max_y REAL NOT NULL,
		continent_min_x REAL NOT NULL,
		continent_min_y REAL NOT NULL,
		continent_max_x REAL NOT NULL,
		continent_max_y REAL NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *MapsDB) Create(ctx context.Context, m catalog.Map) (catalog.Map, error) {
	stmt, err := repo.db.PrepareContext(ctx, `INSERT INTO maps (id, name, map_min_x, map_min_y, map_max_x, map_max_y, continent_min_x, continent_min_y, continent_max_x, continent_max_y) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return catalog.Map{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		m.ID,
		m.Name,
		m.MapRect.Min.X,
		m.MapRect.Min.Y,
		m.MapRect.Max.X,
		m.MapRect.Max.Y,
		m.ContinentRect.Min.X,
		m.ContinentRect.Min.Y,
		m.ContinentRect.Max.X,
		m.ContinentRect.Max.Y,
	)
	if err != nil {
		return catalog.Map{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, m.ID)
}

func (repo *MapsDB) GetAll(ctx context.Context) ([]catalog.Map, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, map_min_x, map_min_y, map_max_x, map_max_y, continent_min_x, continent_min_y, continent_max_x, continent_max_y FROM maps ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []catalog.Map

	for rows.Next() {
		var m catalog.Map
		err = rows.Scan(
			&m.ID,
			&m.Name,
			&m.MapRect.Min.X,
			&m.MapRect.Min.Y,
			&m.MapRect.Max.X,
			&m.MapRect.Max.Y,
			&m.ContinentRect.Min.X,
			&m.ContinentRect.Min.Y,
			&m.ContinentRect.Max.X,
			&m.ContinentRect.Max.Y,
		)
		if err != nil {
			return nil, wrapDBError(err)
		}

		all = append(all, m)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *MapsDB) GetByID(ctx context.Context, id int) (catalog.Map, error) {
	m := catalog.Map{
		ID: id,
	}

	row := repo.db.QueryRowContext(ctx, `SELECT name, map_min_x, map_min_y, map_max_x, map_max_y, continent_min_x, continent_min_y, continent_max_x, continent_max_y FROM maps WHERE id = ?;`,
		id,
	)
	err := row.Scan(
		&m.Name,
		&m.MapRect.Min.X,
		&m.MapRect.Min.Y,
		&m.MapRect.Max.X,
		&m.MapRect.Max.Y,
		&m.ContinentRect.Min.X,
		&m.ContinentRect.Min.Y,
		&m.ContinentRect.Max.X,
		&m.ContinentRect.Max.Y,
	)
	if err != nil {
		return catalog.Map{}, wrapDBError(err)
	}

	return m, nil
}

func (repo *MapsDB) Delete(ctx context.Context, id int) (catalog.Map, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, catalog.ErrNotFound
	}

	return curVal, nil
}
