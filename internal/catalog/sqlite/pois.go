package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/chatmacro/internal/catalog"
)

type PointsOfInterestDB struct {
	db *sql.DB
}

func (repo *PointsOfInterestDB) init(fk bool) error {
	// seq keeps creation order; the game ID is only unique within a map.
	stmt := `CREATE TABLE IF NOT EXISTS pois (
		seq INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL,
		map_id INTEGER NOT NULL`

	if fk {
		stmt += ` REFERENCES maps(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		chat_link TEXT NOT NULL,
		UNIQUE (map_id, id)
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *PointsOfInterestDB) Create(ctx context.Context, poi catalog.PointOfInterest) (catalog.PointOfInterest, error) {
	_, err := repo.db.ExecContext(ctx, `INSERT INTO pois (id, map_id, name, type, x, y, chat_link) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		poi.ID,
		poi.MapID,
		poi.Name,
		poi.Type.String(),
		poi.Coord.X,
		poi.Coord.Y,
		poi.ChatLink,
	)
	if err != nil {
		return catalog.PointOfInterest{}, wrapDBError(err)
	}

	return poi, nil
}

func (repo *PointsOfInterestDB) GetAllByMap(ctx context.Context, mapID int) ([]catalog.PointOfInterest, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, type, x, y, chat_link FROM pois WHERE map_id = ? ORDER BY seq;`,
		mapID,
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []catalog.PointOfInterest{}

	for rows.Next() {
		poi := catalog.PointOfInterest{MapID: mapID}
		var typ string
		err = rows.Scan(
			&poi.ID,
			&poi.Name,
			&typ,
			&poi.Coord.X,
			&poi.Coord.Y,
			&poi.ChatLink,
		)
		if err != nil {
			return nil, wrapDBError(err)
		}

		poi.Type, err = catalog.ParsePoiType(typ)
		if err != nil && typ != catalog.PoiUnknown.String() {
			return all, fmt.Errorf("stored type %q of point of interest %d is invalid: %w", typ, poi.ID, err)
		}

		all = append(all, poi)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *PointsOfInterestDB) DeleteAllByMap(ctx context.Context, mapID int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM pois WHERE map_id = ?`, mapID)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}
