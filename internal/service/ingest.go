package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/campus-collector/internal/exifmeta"
	"github.com/templui/campus-collector/internal/logger"
	"github.com/templui/campus-collector/internal/model"
	"github.com/templui/campus-collector/internal/naming"
	"github.com/templui/campus-collector/internal/repository"
	"github.com/templui/campus-collector/internal/storage"
	"github.com/templui/campus-collector/internal/validation"
)

// ItemState is how far one photo got through the pipeline.
type ItemState int

const (
	StatePending ItemState = iota
	StateValidated
	StateExtractedMetadata
	StateNamed
	StateWritten
	StatePersisted
	StateAcknowledged
	StateFailed
)

var itemStateNames = [...]string{
	StatePending:           "pending",
	StateValidated:         "validated",
	StateExtractedMetadata: "extracted_metadata",
	StateNamed:             "named",
	StateWritten:           "written",
	StatePersisted:         "persisted",
	StateAcknowledged:      "acknowledged",
	StateFailed:            "failed",
}

func (s ItemState) String() string {
	if s < 0 || int(s) >= len(itemStateNames) {
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
	return itemStateNames[s]
}

// FailurePolicy decides what happens to the rest of a batch after a photo fails.
// Photos acknowledged before the failure stay committed under every policy.
type FailurePolicy int

const (
	// AbortOnFirstFailure stops at the first failed photo and fails the submission.
	AbortOnFirstFailure FailurePolicy = iota
	// ContinueOnFailure processes every photo and fails the submission if any failed.
	ContinueOnFailure
)

// stopAfter reports whether processing ends after result.
func (p FailurePolicy) stopAfter(result ItemResult) bool {
	return result.State == StateFailed && p == AbortOnFirstFailure
}

// Kind classifies ingestion failures.
type Kind int

const (
	KindInvalidInput Kind = iota + 1 // client error, nothing for this photo was written
	KindStorage                      // file could not be written
	KindPersistence                  // file written, catalog row not created
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindStorage:
		return "storage"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error is a failed submission. Index is -1 when the batch itself was rejected.
type Error struct {
	Kind     Kind
	Index    int
	Filename string
	Err      error
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: photo %d (%s): %v", e.Kind, e.Index, e.Filename, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Submission is one client request: photos bound for a single collection.
type Submission struct {
	Collection string
	Uploads    []*model.Upload
}

// ItemResult records the outcome of one photo. Photo is set once the catalog
// row exists, Err once the photo failed.
type ItemResult struct {
	Index        int
	OriginalName string
	State        ItemState
	Photo        *model.Photo
	Err          *Error
}

// Acknowledgement is what the client learns about a stored photo.
type Acknowledgement struct {
	Filename     string   `json:"filename"`
	OriginalName string   `json:"original_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type BatchResult struct {
	SubmissionID string
	Count        int
	Photos       []Acknowledgement
	Items        []ItemResult
}

type IngestService struct {
	photoRepo   repository.PhotoRepository
	storage     storage.Storage
	names       *naming.Generator
	constraints validation.PhotoConstraints
	policy      FailurePolicy
	now         func() time.Time
}

func NewIngestService(photoRepo repository.PhotoRepository, storage storage.Storage) *IngestService {
	return &IngestService{
		photoRepo:   photoRepo,
		storage:     storage,
		names:       naming.New(),
		constraints: validation.DefaultPhotoConstraints,
		policy:      AbortOnFirstFailure,
		now:         time.Now,
	}
}

// SetPolicy replaces the default AbortOnFirstFailure policy.
func (s *IngestService) SetPolicy(policy FailurePolicy) {
	s.policy = policy
}

// Ingest stores every photo of the submission in order: validate, extract
// embedded metadata, name, write, persist. It is not atomic. When a photo fails
// the photos before it stay stored and cataloged, and the returned result lists
// them alongside the *Error. Resubmitting stores everything again.
func (s *IngestService) Ingest(ctx context.Context, sub Submission) (*BatchResult, error) {
	result := &BatchResult{SubmissionID: uuid.NewString()}
	log := logger.Component("ingest").With(
		"submission_id", result.SubmissionID,
		"collection", sub.Collection,
		"photos", len(sub.Uploads),
	)

	err := validation.ValidateBatch(sub.Collection, len(sub.Uploads))
	if err != nil {
		log.Info("submission rejected", "error", err)
		return result, &Error{Kind: KindInvalidInput, Index: -1, Err: err}
	}

	var firstErr *Error
	for i, upload := range sub.Uploads {
		item := s.ingestOne(ctx, log, sub.Collection, i, upload)
		result.Items = append(result.Items, item)

		if item.State == StateAcknowledged {
			result.Photos = append(result.Photos, acknowledge(item.Photo))
		} else if firstErr == nil {
			firstErr = item.Err
		}

		if s.policy.stopAfter(item) {
			log.Warn("submission aborted", "index", i, "acknowledged", len(result.Photos), "error", item.Err)
			break
		}
	}
	result.Count = len(result.Photos)

	if firstErr != nil {
		return result, firstErr
	}

	log.Info("submission stored", "count", result.Count)
	return result, nil
}

func (s *IngestService) ingestOne(ctx context.Context, log *slog.Logger, collection string, index int, upload *model.Upload) ItemResult {
	item := ItemResult{Index: index, OriginalName: upload.Filename, State: StatePending}
	fail := func(kind Kind, err error) ItemResult {
		item.State = StateFailed
		item.Err = &Error{Kind: kind, Index: index, Filename: upload.Filename, Err: err}
		return item
	}

	err := validation.ValidateUpload(index, upload, s.constraints)
	if err != nil {
		return fail(KindInvalidInput, err)
	}
	item.State = StateValidated

	embedded := exifmeta.Extract(upload.Data)
	item.State = StateExtractedMetadata

	name, err := s.names.Name(collection, upload.Filename)
	if err != nil {
		return fail(KindStorage, err)
	}
	item.State = StateNamed

	_, err = s.storage.Save(ctx, collection, name, upload.Data)
	if err != nil {
		log.Error("failed to write photo", "index", index, "filename", name, "error", err)
		return fail(KindStorage, err)
	}
	item.State = StateWritten

	photo := &model.Photo{
		University:   collection,
		Filename:     name,
		OriginalName: upload.Filename,
		Description:  model.NullString(upload.Description),
		FileSize:     int64(len(upload.Data)),
		MimeType:     upload.MimeType,
		FocalLength:  model.NullFloat(embedded.FocalLength),
		UploadedAt:   s.now().UTC(),
	}
	photo.SetMetadata(upload.Metadata)
	photo.SetLocation(embedded.Location)

	_, err = s.photoRepo.Create(ctx, photo)
	if err != nil {
		// The file stays behind without a row.
		log.Error("failed to catalog photo", "index", index, "filename", name, "error", err)
		return fail(KindPersistence, err)
	}
	item.State = StatePersisted

	item.Photo = photo
	item.State = StateAcknowledged
	log.Debug("photo stored", "index", index, "filename", name, "id", photo.ID, "geotagged", embedded.Location != nil)
	return item
}

func acknowledge(photo *model.Photo) Acknowledgement {
	ack := Acknowledgement{Filename: photo.Filename, OriginalName: photo.OriginalName}
	if loc := photo.Location(); loc != nil {
		ack.Latitude = &loc.Latitude
		ack.Longitude = &loc.Longitude
	}
	return ack
}

// IsInvalidInput reports whether err was caused by the client's submission.
func IsInvalidInput(err error) bool {
	var ingestErr *Error
	return errors.As(err, &ingestErr) && ingestErr.Kind == KindInvalidInput
}
