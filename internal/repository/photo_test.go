package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/templui/campus-collector/internal/catalog"
	"github.com/templui/campus-collector/internal/model"
)

func newTestRepository(t *testing.T) *photoRepository {
	t.Helper()
	store := catalog.NewStore("sqlite", filepath.Join(t.TempDir(), "photos.db"))
	t.Cleanup(func() { store.Close() })
	return NewPhotoRepository(store)
}

func TestPhotoCreateAndByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	focal := 4.25
	photo := &model.Photo{
		University:   "xidian",
		Filename:     "xidian_1700000000000_0123456789abcdef0123456789abcdef.jpg",
		OriginalName: "gate.JPG",
		Description:  model.NullString("南门"),
		FileSize:     2 << 20,
		MimeType:     "image/jpeg",
		FocalLength:  model.NullFloat(&focal),
		UploadedAt:   time.Now().UTC().Truncate(time.Second),
	}
	photo.SetMetadata(model.PhotoMetadata{Time: "morning", Style: "architecture"})
	photo.SetLocation(&model.GeoPoint{Latitude: 34.125, Longitude: 108.9})

	id, err := repo.Create(ctx, photo)
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 || photo.ID != id {
		t.Fatalf("expect assigned id, got %d (photo.ID %d)", id, photo.ID)
	}

	got, err := repo.ByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Filename != photo.Filename || got.OriginalName != "gate.JPG" {
		t.Errorf("unexpected names %q %q", got.Filename, got.OriginalName)
	}
	if got.Description.String != "南门" {
		t.Errorf("expect description kept, got %q", got.Description.String)
	}
	if !got.PhotoTime.Valid || got.PhotoTime.String != "morning" {
		t.Errorf("expect photo_time morning, got %+v", got.PhotoTime)
	}
	if got.PhotoSeason.Valid || got.PhotoWeather.Valid || got.PhotoLocation.Valid {
		t.Error("omitted fields must be NULL")
	}
	loc := got.Location()
	if loc == nil || loc.Latitude != 34.125 || loc.Longitude != 108.9 {
		t.Errorf("unexpected location %+v", loc)
	}
	if got.FocalLength.Float64 != 4.25 {
		t.Errorf("expect focal length 4.25, got %v", got.FocalLength)
	}
}

func TestPhotoByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.ByID(context.Background(), 42)
	if !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("expect ErrPhotoNotFound, got %v", err)
	}
}

func TestPhotoFilenameUnique(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	photo := &model.Photo{
		University:   "xsyu",
		Filename:     "xsyu_1_dup.png",
		OriginalName: "a.png",
		FileSize:     1,
		MimeType:     "image/png",
		UploadedAt:   time.Now().UTC(),
	}
	_, err := repo.Create(ctx, photo)
	if err != nil {
		t.Fatal(err)
	}

	again := *photo
	_, err = repo.Create(ctx, &again)
	if err == nil {
		t.Error("expect unique constraint violation on duplicate filename")
	}
}

func TestPhotoByCollectionAndCounts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	inserts := []struct {
		collection string
		filename   string
	}{
		{"xidian", "xidian_1_a.jpg"},
		{"xidian", "xidian_2_b.jpg"},
		{"bristol", "bristol_3_c.png"},
	}
	for i, in := range inserts {
		_, err := repo.Create(ctx, &model.Photo{
			University:   in.collection,
			Filename:     in.filename,
			OriginalName: in.filename,
			FileSize:     int64(i + 1),
			MimeType:     "image/jpeg",
			UploadedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	photos, err := repo.ByCollection(ctx, "xidian", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 2 {
		t.Fatalf("expect 2 photos, got %d", len(photos))
	}
	if photos[0].Filename != "xidian_2_b.jpg" {
		t.Errorf("expect newest first, got %s", photos[0].Filename)
	}

	limited, err := repo.ByCollection(ctx, "xidian", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expect limit 1, got %d", len(limited))
	}

	counts, err := repo.CountByCollection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts["xidian"] != 2 || counts["bristol"] != 1 || counts["xaut"] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}
