// Package sqlite is a catalog.Store backed by a SQLite database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db *sql.DB

	maps *MapsDB
	pois *PointsOfInterestDB
}

// NewDatastore opens the catalog database in storageDir, creating it and its
// tables if they do not yet exist.
func NewDatastore(storageDir string) (catalog.Store, error) {
	st := &store{
		dbFilename: "catalog.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.maps = &MapsDB{db: st.db}
	if err := st.maps.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("%s: init maps: %w", st.dbFilename, err)
	}

	st.pois = &PointsOfInterestDB{db: st.db}
	if err := st.pois.init(true); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("%s: init points of interest: %w", st.dbFilename, err)
	}

	return st, nil
}

func (s *store) Maps() catalog.MapRepository {
	return s.maps
}

func (s *store) PointsOfInterest() catalog.PointOfInterestRepository {
	return s.pois
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code()&0xff == 19 {
			return catalog.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return err
}
