package content

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/base64pro/ratil-app/internal/models"
	"github.com/base64pro/ratil-app/internal/validation"
)

type stubSaver struct{}

func (stubSaver) Save(_ *multipart.FileHeader) (string, error) {
	return "/media/stub.jpg", nil
}

// newTestRouter mounts the handler on the same admin patterns the server
// registers, so param names in the handler are checked against the routes.
func newTestRouter(repo Repository, remover MediaRemover) chi.Router {
	h := NewHandler(newTestService(repo, remover), validation.New(), stubSaver{}, 1<<20, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Post("/api/content/{category}/subcategories", h.CreateSubcategory)
	r.Put("/api/content/{category}/subcategories/{id}", h.UpdateSubcategory)
	r.Delete("/api/content/{category}/subcategories/{id}", h.DeleteSubcategory)
	r.Post("/api/content/{category}/{subcategoryID}", h.CreateItem)
	r.Put("/api/content/{category}/{subcategoryID}/{id}", h.UpdateItem)
	r.Delete("/api/content/{category}/{subcategoryID}/{id}", h.DeleteItem)
	return r
}

func itemFormBody(t *testing.T, title, description string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", title); err != nil {
		t.Fatalf("write title: %v", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		t.Fatalf("write description: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpdateSubcategoryThroughRouter(t *testing.T) {
	repo := newStubRepo()
	repo.subs["s1"] = models.Subcategory{ID: "s1", CategoryName: models.CategoryEvents, Name: "حفلات"}
	router := newTestRouter(repo, &stubRemover{})

	req := httptest.NewRequest(http.MethodPut, "/api/content/"+models.CategoryEvents+"/subcategories/s1", strings.NewReader(`{"name":"مؤتمرات"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if repo.subs["s1"].Name != "مؤتمرات" {
		t.Fatalf("subcategory name = %q", repo.subs["s1"].Name)
	}
}

func TestDeleteSubcategoryThroughRouter(t *testing.T) {
	repo := newStubRepo()
	repo.subs["s1"] = models.Subcategory{ID: "s1", CategoryName: models.CategoryEvents, Name: "حفلات"}
	router := newTestRouter(repo, &stubRemover{})

	req := httptest.NewRequest(http.MethodDelete, "/api/content/"+models.CategoryEvents+"/subcategories/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, ok := repo.subs["s1"]; ok {
		t.Fatalf("subcategory still present after delete")
	}
}

func TestUpdateItemThroughRouter(t *testing.T) {
	repo := newStubRepo()
	repo.subs["s1"] = models.Subcategory{ID: "s1", CategoryName: models.CategoryEvents, Name: "حفلات"}
	repo.items["i1"] = models.ContentItem{ID: "i1", SubcategoryID: "s1", Title: "قديم", Description: "وصف"}
	router := newTestRouter(repo, &stubRemover{})

	body, contentType := itemFormBody(t, "جديد", "وصف محدث")
	req := httptest.NewRequest(http.MethodPut, "/api/content/"+models.CategoryEvents+"/s1/i1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if repo.items["i1"].Title != "جديد" {
		t.Fatalf("item title = %q", repo.items["i1"].Title)
	}
}

func TestDeleteItemThroughRouter(t *testing.T) {
	repo := newStubRepo()
	repo.subs["s1"] = models.Subcategory{ID: "s1", CategoryName: models.CategoryEvents, Name: "حفلات"}
	repo.items["i1"] = models.ContentItem{ID: "i1", SubcategoryID: "s1", Title: "عنصر", MediaURL: "/media/x.jpg"}
	remover := &stubRemover{}
	router := newTestRouter(repo, remover)

	req := httptest.NewRequest(http.MethodDelete, "/api/content/"+models.CategoryEvents+"/s1/i1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, ok := repo.items["i1"]; ok {
		t.Fatalf("item still present after delete")
	}
	if len(remover.removed) != 1 || remover.removed[0] != "/media/x.jpg" {
		t.Fatalf("media not removed: %v", remover.removed)
	}
}
