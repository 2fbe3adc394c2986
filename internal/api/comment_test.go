package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

type fakeCommentRepo struct {
	comments map[uuid.UUID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]*models.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, bookID, userID uuid.UUID, userName, body string) (*models.Comment, error) {
	c := &models.Comment{
		ID:        uuid.New(),
		BookID:    bookID,
		UserID:    userID,
		UserName:  userName,
		Body:      body,
		CreatedAt: time.Now(),
	}
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	return f.comments[commentID], nil
}

func (f *fakeCommentRepo) ListByBook(ctx context.Context, bookID uuid.UUID) ([]models.Comment, error) {
	out := make([]models.Comment, 0)
	for _, c := range f.comments {
		if c.BookID == bookID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, commentID uuid.UUID) error {
	delete(f.comments, commentID)
	return nil
}

func commentRouter(comments *fakeCommentRepo, users *fakeUsers, userID uuid.UUID, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCommentHandler(comments, users, zap.NewNop())

	r := gin.New()
	r.Use(asUser(userID, admin))
	r.POST("/v1/books/:id/comments", h.Create)
	r.GET("/v1/books/:id/comments", h.ListByBook)
	r.DELETE("/v1/comments/:id", h.Delete)
	return r
}

// The author's display name is copied onto the comment when it is
// created, so later renames do not rewrite old comments.
func TestCreateCommentSnapshotsName(t *testing.T) {
	users := newFakeUsers()
	author := users.add("riya@example.com", "Riya", "correct-horse")
	comments := newFakeCommentRepo()
	bookID := uuid.New()
	r := commentRouter(comments, users, author.ID, false)

	w := doRequest(t, r, http.MethodPost, "/v1/books/"+bookID.String()+"/comments", gin.H{"body": "loved the ending"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var got models.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.UserName != "Riya" {
		t.Errorf("userName = %q, want Riya", got.UserName)
	}

	author.DisplayName = "Riya K"
	stored := comments.comments[got.ID]
	if stored.UserName != "Riya" {
		t.Errorf("stored userName = %q, the snapshot must survive renames", stored.UserName)
	}
}

func TestListCommentsByBook(t *testing.T) {
	users := newFakeUsers()
	author := users.add("riya@example.com", "Riya", "correct-horse")
	comments := newFakeCommentRepo()
	bookID := uuid.New()
	comments.Create(context.Background(), bookID, author.ID, "Riya", "first")
	comments.Create(context.Background(), uuid.New(), author.ID, "Riya", "other book")

	r := commentRouter(comments, users, author.ID, false)

	w := doRequest(t, r, http.MethodGet, "/v1/books/"+bookID.String()+"/comments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var got []models.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].Body != "first" {
		t.Errorf("comments = %+v, want only the book's own comment", got)
	}
}

// The author or an admin may delete a comment; anyone else is refused.
func TestDeleteCommentGuard(t *testing.T) {
	users := newFakeUsers()
	author := users.add("riya@example.com", "Riya", "correct-horse")

	cases := []struct {
		name   string
		caller uuid.UUID
		admin  bool
		want   int
	}{
		{"stranger", uuid.New(), false, http.StatusForbidden},
		{"author", author.ID, false, http.StatusNoContent},
		{"admin", uuid.New(), true, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comments := newFakeCommentRepo()
			comment, _ := comments.Create(context.Background(), uuid.New(), author.ID, "Riya", "hot take")
			r := commentRouter(comments, users, tc.caller, tc.admin)

			w := doRequest(t, r, http.MethodDelete, "/v1/comments/"+comment.ID.String(), nil)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}

			_, stillThere := comments.comments[comment.ID]
			if tc.want == http.StatusNoContent && stillThere {
				t.Error("comment not deleted")
			}
			if tc.want == http.StatusForbidden && !stillThere {
				t.Error("comment deleted by a stranger")
			}
		})
	}
}

func TestDeleteCommentUnknown(t *testing.T) {
	users := newFakeUsers()
	me := users.add("riya@example.com", "Riya", "correct-horse")
	r := commentRouter(newFakeCommentRepo(), users, me.ID, false)

	w := doRequest(t, r, http.MethodDelete, "/v1/comments/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
