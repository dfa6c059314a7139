package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/templui/campus-collector/internal/model"
)

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		collection string
		count      int
		code       Code
	}{
		{"xidian", 1, ""},
		{"bristol", 3, ""},
		{"", 1, CodeMissingFields},
		{"xidian", 0, CodeMissingFields},
		{"not-a-real-school", 1, CodeInvalidCollection},
		{"XIDIAN", 1, CodeInvalidCollection},
	}
	for i, test := range tests {
		err := ValidateBatch(test.collection, test.count)
		if test.code == "" {
			if err != nil {
				t.Errorf("%d expect no error, got %v", i, err)
			}
			continue
		}
		var verr *Error
		if !errors.As(err, &verr) {
			t.Errorf("%d expect *Error, got %v", i, err)
			continue
		}
		if verr.Code != test.code {
			t.Errorf("%d expect %s, got %s", i, test.code, verr.Code)
		}
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name   string
		upload model.Upload
		code   Code
	}{
		{"jpeg", model.Upload{Filename: "a.jpg", MimeType: "image/jpeg", Size: 1024}, ""},
		{"png", model.Upload{Filename: "a.png", MimeType: "image/png", Size: 1024}, ""},
		{"exact limit", model.Upload{Filename: "a.png", MimeType: "image/png", Size: 10485760}, ""},
		{"image/jpg is not accepted", model.Upload{Filename: "a.jpg", MimeType: "image/jpg", Size: 1}, CodeInvalidFileType},
		{"webp", model.Upload{Filename: "a.webp", MimeType: "image/webp", Size: 1}, CodeInvalidFileType},
		{"empty type", model.Upload{Filename: "a", Size: 1}, CodeInvalidFileType},
		{"one byte over", model.Upload{Filename: "big.png", MimeType: "image/png", Size: 10485761}, CodeFileTooLarge},
		{"11MB", model.Upload{Filename: "big.png", MimeType: "image/png", Size: 11 << 20}, CodeFileTooLarge},
		{"500 code points", model.Upload{Filename: "a.jpg", MimeType: "image/jpeg", Description: strings.Repeat("图", 500)}, ""},
		{"501 code points", model.Upload{Filename: "a.jpg", MimeType: "image/jpeg", Description: strings.Repeat("图", 501)}, CodeDescriptionTooLong},
		{"type checked before size", model.Upload{Filename: "a.gif", MimeType: "image/gif", Size: 11 << 20}, CodeInvalidFileType},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateUpload(2, &test.upload, DefaultPhotoConstraints)
			if test.code == "" {
				if err != nil {
					t.Fatalf("expect no error, got %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expect *Error, got %v", err)
			}
			if verr.Code != test.code {
				t.Errorf("expect %s, got %s", test.code, verr.Code)
			}
			if verr.Index != 2 || verr.Filename != test.upload.Filename {
				t.Errorf("expect item 2 %q, got %d %q", test.upload.Filename, verr.Index, verr.Filename)
			}
		})
	}
}

func TestValidateUploadsStopsAtFirstViolation(t *testing.T) {
	uploads := []*model.Upload{
		{Filename: "ok.jpg", MimeType: "image/jpeg", Size: 10},
		{Filename: "bad.gif", MimeType: "image/gif", Size: 10},
		{Filename: "huge.png", MimeType: "image/png", Size: 20 << 20},
	}
	err := ValidateUploads(uploads, DefaultPhotoConstraints)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expect *Error, got %v", err)
	}
	if verr.Index != 1 || verr.Code != CodeInvalidFileType {
		t.Errorf("expect first violation at 1, got %d %s", verr.Index, verr.Code)
	}
	if !strings.Contains(err.Error(), "bad.gif") {
		t.Errorf("expect message to name the file, got %q", err.Error())
	}
}
