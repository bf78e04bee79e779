// Package upload validates CV and image files before they are sent or stored.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxCVBytes           = 5 << 20
	MaxProfileImageBytes = 2 << 20
	MaxProjectImageBytes = 5 << 20

	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Error is a validation failure with a message fit for the operator.
type Error struct {
	Title       string
	Description string
}

func (e *Error) Error() string { return e.Title + ": " + e.Description }

var (
	ErrCVType = &Error{Title: "Invalid file type", Description: "Please upload a PDF or DOCX file"}
	ErrCVSize = &Error{Title: "File too large", Description: "Maximum file size is 5MB"}

	ErrImageType = &Error{Title: "Invalid file type", Description: "Please upload an image file"}
)

// CheckCV applies the CV rule to a file's name, size and declared MIME type.
func CheckCV(name string, size int64, contentType string) error {
	ext := strings.ToLower(filepath.Ext(name))
	ct := baseType(contentType)

	okType := ct == MIMEPDF || ext == ".pdf" || ext == ".docx" || ct == MIMEDOCX
	if !okType {
		return ErrCVType
	}
	if size > MaxCVBytes {
		return ErrCVSize
	}
	return nil
}

// CheckImage accepts any image/* type up to limit bytes.
func CheckImage(size int64, contentType string, limit int64) error {
	if !strings.HasPrefix(baseType(contentType), "image/") {
		return ErrImageType
	}
	if size > limit {
		return TooLarge(limit)
	}
	return nil
}

// TooLarge is the size error for a limit in bytes.
func TooLarge(limit int64) *Error {
	return &Error{Title: "File too large", Description: fmt.Sprintf("Maximum file size is %dMB", limit>>20)}
}

// Sniff detects the MIME type from the first bytes of r and returns a
// reader that still yields the full content.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, fmt.Errorf("sniff: %w", err)
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	return mt.String(), io.MultiReader(bytes.NewReader(head), r), nil
}

// DetectPart returns the sniffed type of an uploaded part, falling back to
// the declared header when sniffing yields only a generic type.
func DetectPart(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open part: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect part: %w", err)
	}
	detected := baseType(mt.String())
	// docx sniffs as zip on older detector tables
	if detected == "application/octet-stream" || detected == "application/zip" {
		if declared := baseType(fh.Header.Get("Content-Type")); declared != "" {
			return declared, nil
		}
	}
	return detected, nil
}

// CheckCVPart validates an uploaded CV part using its sniffed type.
func CheckCVPart(fh *multipart.FileHeader) (string, error) {
	ct, err := DetectPart(fh)
	if err != nil {
		return "", err
	}
	if err := CheckCV(fh.Filename, fh.Size, ct); err != nil {
		return "", err
	}
	return ct, nil
}

// CheckImagePart validates an uploaded image part using its sniffed type.
func CheckImagePart(fh *multipart.FileHeader, limit int64) (string, error) {
	ct, err := DetectPart(fh)
	if err != nil {
		return "", err
	}
	if err := CheckImage(fh.Size, ct, limit); err != nil {
		return "", err
	}
	return ct, nil
}

func baseType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
