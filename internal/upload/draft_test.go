package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-engine/internal/session"
)

func validDraft(t *testing.T) *Draft {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spoiler.glb")
	require.NoError(t, os.WriteFile(path, []byte("glTF fake"), 0644))
	return &Draft{
		UserName:      "pat",
		Email:         "pat@example.com",
		PartName:      "Carbon Spoiler",
		PartType:      "spoiler",
		CarModel:      "bmw_m4_competition.glb",
		Description:   "big wing",
		FilePath:      path,
		AgreedToTerms: true,
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validDraft(t).Validate())
}

func TestValidateRequiredFields(t *testing.T) {
	d := validDraft(t)
	d.PartName = ""
	assert.Error(t, d.Validate())
}

func TestValidateTerms(t *testing.T) {
	d := validDraft(t)
	d.AgreedToTerms = false
	assert.Error(t, d.Validate())
}

func TestValidateEmail(t *testing.T) {
	d := validDraft(t)
	for _, bad := range []string{"nope", "a@b", "has space@x.com", "@x.com"} {
		d.Email = bad
		assert.Error(t, d.Validate(), bad)
	}
	d.Email = "fine@garage.example"
	assert.NoError(t, d.Validate())
}

func TestValidateExtension(t *testing.T) {
	d := validDraft(t)
	path := filepath.Join(t.TempDir(), "spoiler.obj")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	d.FilePath = path
	assert.Error(t, d.Validate())

	upper := filepath.Join(t.TempDir(), "SPOILER.GLB")
	require.NoError(t, os.WriteFile(upper, []byte("x"), 0644))
	d.FilePath = upper
	assert.NoError(t, d.Validate())
}

func TestValidateMissingFile(t *testing.T) {
	d := validDraft(t)
	d.FilePath = filepath.Join(t.TempDir(), "gone.glb")
	assert.Error(t, d.Validate())
}

func TestSubmitRequiresSignIn(t *testing.T) {
	err := Submit(context.Background(), nil, "http://localhost", session.New(), validDraft(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sign in")
}

func signedIn() session.Context {
	s := session.New()
	s.UserID = 42
	s.Token = "token-123"
	return s
}

func TestSubmitPostsMultipart(t *testing.T) {
	var gotPath, gotAuth, gotPart string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPart = r.FormValue("partName")
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		buf := make([]byte, 32)
		n, _ := f.Read(buf)
		gotFile = buf[:n]
	}))
	defer srv.Close()

	err := Submit(context.Background(), srv.Client(), srv.URL+"/", signedIn(), validDraft(t))
	require.NoError(t, err)
	assert.Equal(t, "/api/upload-part", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "Carbon Spoiler", gotPart)
	assert.Equal(t, "glTF fake", string(gotFile))
}

func TestSubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := Submit(context.Background(), srv.Client(), srv.URL, signedIn(), validDraft(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload failed")
}

func TestSubmitValidatesFirst(t *testing.T) {
	d := validDraft(t)
	d.AgreedToTerms = false
	err := Submit(context.Background(), nil, "http://localhost:0", signedIn(), d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terms")
}
