package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/campus-collector/internal/model"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
)

// Conn hands out the catalog database, opening it on first use.
type Conn interface {
	DB() (*sqlx.DB, error)
}

// PhotoRepository is append-only: photos are never updated or deleted.
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Photo, error)
	ByCollection(ctx context.Context, collection string, limit int) ([]*model.Photo, error)
	CountByCollection(ctx context.Context) (map[string]int, error)
}

// Columns are listed explicitly so catalogs carrying extra columns still scan.
const photoColumns = `id, university, filename, original_name, description, file_size, mime_type,
	photo_time, photo_season, photo_weather, photo_location, photo_style,
	latitude, longitude, focal_length, uploaded_at`

type photoRepository struct {
	conn Conn
}

func NewPhotoRepository(conn Conn) *photoRepository {
	return &photoRepository{conn: conn}
}

func (r *photoRepository) Create(ctx context.Context, photo *model.Photo) (int64, error) {
	db, err := r.conn.DB()
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO photos (university, filename, original_name, description, file_size, mime_type,
	          photo_time, photo_season, photo_weather, photo_location, photo_style,
	          latitude, longitude, focal_length, uploaded_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id`

	var id int64
	err = db.QueryRowxContext(ctx, query,
		photo.University,
		photo.Filename,
		photo.OriginalName,
		photo.Description,
		photo.FileSize,
		photo.MimeType,
		photo.PhotoTime,
		photo.PhotoSeason,
		photo.PhotoWeather,
		photo.PhotoLocation,
		photo.PhotoStyle,
		photo.Latitude,
		photo.Longitude,
		photo.FocalLength,
		photo.UploadedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert photo: %w", err)
	}

	photo.ID = id
	return id, nil
}

func (r *photoRepository) ByID(ctx context.Context, id int64) (*model.Photo, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}

	photo := &model.Photo{}
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`

	err = db.GetContext(ctx, photo, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, err
	}

	return photo, nil
}

// ByCollection returns the newest photos of a collection first.
func (r *photoRepository) ByCollection(ctx context.Context, collection string, limit int) ([]*model.Photo, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	var photos []*model.Photo
	query := `SELECT ` + photoColumns + ` FROM photos WHERE university = $1 ORDER BY uploaded_at DESC, id DESC LIMIT $2`

	err = db.SelectContext(ctx, &photos, query, collection, limit)
	if err != nil {
		return nil, err
	}

	return photos, nil
}

func (r *photoRepository) CountByCollection(ctx context.Context) (map[string]int, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		University string `db:"university"`
		Count      int    `db:"count"`
	}
	query := `SELECT university, COUNT(*) AS count FROM photos GROUP BY university`

	err = db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.University] = row.Count
	}
	return counts, nil
}
