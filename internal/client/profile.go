package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"

	"github.com/portfolio-dev/portfolio/internal/profile/domain"
	"github.com/portfolio-dev/portfolio/internal/upload"
)

// File is a local file about to be uploaded.
type File struct {
	Name string
	// ContentType is the type declared by the caller; it may be empty.
	ContentType string
	Size        int64
	Body        io.Reader
}

func (c *Client) Contacts(ctx context.Context) (*domain.Contacts, error) {
	var out domain.Contacts
	if err := c.getJSON(ctx, "/api/contacts", "/api/contacts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateContacts(ctx context.Context, in domain.Contacts) (*domain.Contacts, error) {
	body := map[string]string{
		"email":    in.Email,
		"phone":    in.Phone,
		"location": in.Location,
		"github":   in.Github,
		"linkedin": in.Linkedin,
	}
	var out domain.Contacts
	if err := c.sendJSON(ctx, http.MethodPost, "/api/contacts", "/api/contacts", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateContacts sends only the fields in patch, keyed by wire name.
func (c *Client) UpdateContacts(ctx context.Context, id string, patch map[string]any) (*domain.Contacts, error) {
	var out domain.Contacts
	err := c.sendJSON(ctx, http.MethodPut, "/api/contacts/:id", "/api/contacts/"+url.PathEscape(id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CVs(ctx context.Context) ([]domain.CVFile, error) {
	var out []domain.CVFile
	if err := c.getJSON(ctx, "/api/cv/dashboard", "/api/cv/dashboard", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveCV returns the published CV, or nil when none is active.
func (c *Client) ActiveCV(ctx context.Context) (*domain.CVFile, error) {
	var out domain.CVFile
	if err := c.getJSON(ctx, "/api/cv/home", "/api/cv/home", &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// UploadCV checks the file locally and sends it as a single multipart
// request. Invalid files are rejected with an *upload.Error before any
// request is made.
func (c *Client) UploadCV(ctx context.Context, f File) (*domain.CVFile, error) {
	if err := upload.CheckCV(f.Name, f.Size, f.ContentType); err != nil {
		return nil, err
	}
	sniffed, body, err := upload.Sniff(f.Body)
	if err != nil {
		return nil, err
	}
	ct := f.ContentType
	if ct == "" {
		ct = sniffed
	}

	var out domain.CVFile
	if err := c.postFile(ctx, "/api/cv", "cvFile", f.Name, ct, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ActivateCV(ctx context.Context, id string) (*domain.CVFile, error) {
	var out domain.CVFile
	err := c.sendJSON(ctx, http.MethodPut, "/api/cv/:id", "/api/cv/"+url.PathEscape(id),
		map[string]bool{"isActive": true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCV(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/cv/:id", path: "/api/cv/" + url.PathEscape(id)}, nil)
}

func (c *Client) Messages(ctx context.Context) ([]domain.Message, error) {
	var out []domain.Message
	if err := c.getJSON(ctx, "/api/messages", "/api/messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendMessage(ctx context.Context, name, email, message string) error {
	body := map[string]string{"name": name, "email": email, "message": message}
	return c.sendJSON(ctx, http.MethodPost, "/api/messages", "/api/messages", body, nil)
}

// Login reports whether password was accepted. A rejected password is not
// an error; rate limiting is reported as ErrRateLimited.
func (c *Client) Login(ctx context.Context, password string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	err := c.sendJSON(ctx, http.MethodPost, "/api/login", "/api/login", map[string]string{"password": password}, &out)
	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) && ae.Status == http.StatusUnauthorized {
			return false, nil
		}
		return false, err
	}
	return out.Success, nil
}

// ProfileImage returns the profile picture URL, or "" when none is set.
func (c *Client) ProfileImage(ctx context.Context) (string, error) {
	var out domain.ProfileImage
	if err := c.getJSON(ctx, "/images/profile", "/images/profile", &out); err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return out.URL, nil
}

func (c *Client) UploadProfileImage(ctx context.Context, f File) (string, error) {
	return c.uploadImage(ctx, "/images/profile", upload.MaxProfileImageBytes, f)
}

func (c *Client) UploadProjectImage(ctx context.Context, f File) (string, error) {
	return c.uploadImage(ctx, "/images/projects", upload.MaxProjectImageBytes, f)
}

func (c *Client) uploadImage(ctx context.Context, path string, limit int64, f File) (string, error) {
	sniffed, body, err := upload.Sniff(f.Body)
	if err != nil {
		return "", err
	}
	if err := upload.CheckImage(f.Size, sniffed, limit); err != nil {
		return "", err
	}

	var out domain.ProfileImage
	if err := c.postFile(ctx, path, "image", f.Name, sniffed, body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) postFile(ctx context.Context, path, field, name, contentType string, r io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(name)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	return c.do(ctx, call{
		method:      http.MethodPost,
		route:       path,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, out)
}
