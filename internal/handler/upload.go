package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/templui/campus-collector/internal/ctxkeys"
	"github.com/templui/campus-collector/internal/httpjson"
	"github.com/templui/campus-collector/internal/i18n"
	"github.com/templui/campus-collector/internal/model"
	"github.com/templui/campus-collector/internal/service"
	"github.com/templui/campus-collector/internal/validation"
)

type UploadHandler struct {
	ingestService *service.IngestService
	maxMemory     int64
	maxBody       int64
	maxFileSize   int64
}

func NewUploadHandler(ingestService *service.IngestService, maxMemory, maxBody int64) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		maxMemory:     maxMemory,
		maxBody:       maxBody,
		maxFileSize:   validation.DefaultPhotoConstraints.MaxSize,
	}
}

type uploadResponse struct {
	Success bool                      `json:"success"`
	Count   int                       `json:"count"`
	Photos  []service.Acknowledgement `json:"photos"`
}

// Upload stores a multipart submission: "university", one or more "photos"
// files and per-photo fields suffixed with the photo's index.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	lang := ctxkeys.Language(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	err := r.ParseMultipartForm(h.maxMemory)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		slog.Info("upload body too large", "limit", tooLarge.Limit)
		httpjson.Error(w, http.StatusRequestEntityTooLarge, i18n.Sprintf(lang, i18n.MsgBodyTooLarge, tooLarge.Limit>>20))
		return
	}
	if err != nil {
		slog.Info("invalid upload form", "error", err)
		httpjson.Error(w, http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgInvalidBody))
		return
	}
	defer r.MultipartForm.RemoveAll()

	if v := r.FormValue("language"); v != "" {
		lang = i18n.Match(v)
	}

	files := r.MultipartForm.File["photos"]
	uploads := make([]*model.Upload, 0, len(files))
	for i, header := range files {
		upload, err := h.readUpload(r, i, header)
		if err != nil {
			slog.Error("failed to read uploaded photo", "error", err, "filename", header.Filename)
			httpjson.Error(w, http.StatusInternalServerError, i18n.Sprintf(lang, i18n.MsgUploadFailed))
			return
		}
		uploads = append(uploads, upload)
	}

	result, err := h.ingestService.Ingest(r.Context(), service.Submission{
		Collection: r.FormValue("university"),
		Uploads:    uploads,
	})
	if err != nil {
		status, message := uploadError(lang, err)
		httpjson.Error(w, status, message)
		return
	}

	httpjson.Write(w, http.StatusOK, uploadResponse{
		Success: true,
		Count:   result.Count,
		Photos:  result.Photos,
	})
}

// readUpload loads one photo and its indexed form fields. Oversized files are
// not read; their declared size is enough for validation to reject them.
func (h *UploadHandler) readUpload(r *http.Request, index int, header *multipart.FileHeader) (*model.Upload, error) {
	field := func(name string) string {
		return r.FormValue(fmt.Sprintf("%s_%d", name, index))
	}

	upload := &model.Upload{
		Filename:    header.Filename,
		MimeType:    header.Header.Get("Content-Type"),
		Size:        header.Size,
		Description: field("description"),
		Metadata: model.PhotoMetadata{
			Time:     field(model.PhotoTimes.Field),
			Season:   field(model.PhotoSeasons.Field),
			Weather:  field(model.PhotoWeathers.Field),
			Location: field(model.PhotoLocations.Field),
			Style:    field(model.PhotoStyles.Field),
		},
	}
	if header.Size > h.maxFileSize {
		return upload, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	upload.Data, err = io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	upload.Size = int64(len(upload.Data))
	return upload, nil
}

// uploadError maps an ingestion failure to a status and a message that names
// the offending file but no server internals.
func uploadError(lang model.Language, err error) (int, string) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		switch vErr.Code {
		case validation.CodeMissingFields:
			return http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgMissingFields)
		case validation.CodeInvalidCollection:
			return http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgInvalidCollection)
		case validation.CodeInvalidFileType:
			return http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgInvalidFileType, vErr.Filename)
		case validation.CodeFileTooLarge:
			return http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgFileTooLarge, vErr.Filename, vErr.Limit>>20)
		case validation.CodeDescriptionTooLong:
			return http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgDescriptionTooLong, vErr.Filename, vErr.Limit)
		}
		return http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgMissingFields)
	}

	return http.StatusInternalServerError, i18n.Sprintf(lang, i18n.MsgUploadFailed)
}
