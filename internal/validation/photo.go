package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/templui/campus-collector/internal/model"
)

// Code identifies which input rule a submission broke.
type Code string

const (
	CodeMissingFields      Code = "missing_fields"
	CodeInvalidCollection  Code = "invalid_collection"
	CodeInvalidFileType    Code = "invalid_file_type"
	CodeFileTooLarge       Code = "file_too_large"
	CodeDescriptionTooLong Code = "description_too_long"
)

// Error is a client input error. Index and Filename point at the offending
// photo, Index is -1 for batch-level errors.
type Error struct {
	Code     Code
	Index    int
	Filename string
	Limit    int64
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeMissingFields:
		return "missing required fields"
	case CodeInvalidCollection:
		return "invalid university"
	case CodeInvalidFileType:
		return fmt.Sprintf("invalid file type for %s", e.Filename)
	case CodeFileTooLarge:
		return fmt.Sprintf("file %s exceeds %d bytes", e.Filename, e.Limit)
	case CodeDescriptionTooLong:
		return fmt.Sprintf("description for %s exceeds %d characters", e.Filename, e.Limit)
	}
	return string(e.Code)
}

// PhotoConstraints defines validation rules for photo submissions
type PhotoConstraints struct {
	AllowedMimeTypes     map[string]bool
	MaxSize              int64
	MaxDescriptionLength int // Unicode code points
}

// DefaultPhotoConstraints matches the dataset rules: JPEG/PNG, 10MB, 500 characters.
// The declared mime type is checked as-is, content is not sniffed.
var DefaultPhotoConstraints = PhotoConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
	},
	MaxSize:              10 << 20, // 10MB
	MaxDescriptionLength: 500,
}

// ValidateBatch checks the submission-level rules: a known collection and at
// least one photo. Per-photo rules are checked by ValidateUpload as each photo
// is processed.
func ValidateBatch(collection string, count int) error {
	if collection == "" || count == 0 {
		return &Error{Code: CodeMissingFields, Index: -1}
	}
	if !model.IsCollection(collection) {
		return &Error{Code: CodeInvalidCollection, Index: -1}
	}
	return nil
}

// ValidateUpload checks one photo against the constraints, in order:
// type, size, description. The first violation is returned.
func ValidateUpload(index int, upload *model.Upload, constraints PhotoConstraints) error {
	if !constraints.AllowedMimeTypes[upload.MimeType] {
		return &Error{Code: CodeInvalidFileType, Index: index, Filename: upload.Filename}
	}

	if upload.Size > constraints.MaxSize || int64(len(upload.Data)) > constraints.MaxSize {
		return &Error{Code: CodeFileTooLarge, Index: index, Filename: upload.Filename, Limit: constraints.MaxSize}
	}

	if utf8.RuneCountInString(upload.Description) > constraints.MaxDescriptionLength {
		return &Error{
			Code:     CodeDescriptionTooLong,
			Index:    index,
			Filename: upload.Filename,
			Limit:    int64(constraints.MaxDescriptionLength),
		}
	}

	return nil
}

// ValidateUploads checks every photo in order and stops at the first violation.
func ValidateUploads(uploads []*model.Upload, constraints PhotoConstraints) error {
	for i, upload := range uploads {
		err := ValidateUpload(i, upload, constraints)
		if err != nil {
			return err
		}
	}
	return nil
}
