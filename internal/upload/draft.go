// Package upload validates contest submission drafts and ships them to the
// backend. The contest rules themselves (voting, qualification) live server
// side; this is only the boundary shape.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"carmod-engine/internal/session"
)

// MaxFileBytes caps submitted part files.
const MaxFileBytes = 50 << 20

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Draft is a transient submission form. It is validated client-side and sent
// as multipart form data; nothing here persists locally.
type Draft struct {
	UserName      string
	Email         string
	PartName      string
	PartType      string
	CarModel      string
	Description   string
	FilePath      string
	AgreedToTerms bool
}

// Validate checks the draft the same way the submission form does: required
// fields, email shape, file extension and size, and the terms checkbox.
func (d *Draft) Validate() error {
	switch {
	case d.UserName == "", d.Email == "", d.PartName == "", d.PartType == "", d.CarModel == "", d.FilePath == "":
		return fmt.Errorf("all required fields must be filled")
	case !d.AgreedToTerms:
		return fmt.Errorf("terms must be agreed to")
	case !emailRe.MatchString(d.Email):
		return fmt.Errorf("invalid email address")
	}
	switch strings.ToLower(filepath.Ext(d.FilePath)) {
	case ".glb", ".gltf":
	default:
		return fmt.Errorf("file must be .glb or .gltf")
	}
	info, err := os.Stat(d.FilePath)
	if err != nil {
		return fmt.Errorf("file: %w", err)
	}
	if info.Size() > MaxFileBytes {
		return fmt.Errorf("file exceeds %d MB limit", MaxFileBytes>>20)
	}
	return nil
}

// Submit validates the draft and posts it to <baseURL>/api/upload-part with
// the session's bearer token. The session must be signed in.
func Submit(ctx context.Context, client *http.Client, baseURL string, sess session.Context, d *Draft) error {
	if !sess.SignedIn() {
		return fmt.Errorf("sign in before submitting")
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if client == nil {
		client = http.DefaultClient
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"userName":    d.UserName,
		"email":       d.Email,
		"partName":    d.PartName,
		"partType":    d.PartType,
		"carModel":    d.CarModel,
		"description": d.Description,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	f, err := os.Open(d.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()
	part, err := w.CreateFormFile("file", filepath.Base(d.FilePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/upload-part", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload failed: %s", resp.Status)
	}
	return nil
}
