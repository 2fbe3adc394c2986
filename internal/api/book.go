package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
	"github.com/Umair-Ahm3d/Club-Lit/internal/repository"
	"github.com/Umair-Ahm3d/Club-Lit/internal/storage"
)

type BookHandler struct {
	books   repository.BookRepository
	ratings repository.RatingRepository
	store   *storage.Store
	logger  *zap.Logger
}

func NewBookHandler(books repository.BookRepository, ratings repository.RatingRepository, store *storage.Store, logger *zap.Logger) *BookHandler {
	return &BookHandler{books: books, ratings: ratings, store: store, logger: logger}
}

type bookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// Create handles POST /v1/books
func (h *BookHandler) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.books.Create(c.Request.Context(), req.Title, req.Author, req.Genre, req.Description, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to create book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}

	c.JSON(http.StatusCreated, book)
}

// List handles GET /v1/books?genre=fantasy&q=herbert
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.books.List(c.Request.Context(), c.Query("genre"), c.Query("q"))
	if err != nil {
		h.logger.Error("failed to list books", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
		return
	}

	c.JSON(http.StatusOK, books)
}

// bookDetail is the GET /v1/books/:id response: the book plus its rating
// aggregate and the caller's own stars (0 when unrated).
type bookDetail struct {
	Book       *models.Book          `json:"book"`
	Rating     *models.RatingSummary `json:"rating"`
	UserRating int                   `json:"userRating"`
}

// GetByID handles GET /v1/books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	book, err := h.books.GetByID(c.Request.Context(), bookID)
	if err != nil {
		h.logger.Error("failed to get book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get book"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	summary, err := h.ratings.Summary(c.Request.Context(), bookID)
	if err != nil {
		h.logger.Error("failed to get rating summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get book"})
		return
	}
	mine, err := h.ratings.UserRating(c.Request.Context(), bookID, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user rating", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get book"})
		return
	}

	c.JSON(http.StatusOK, bookDetail{Book: book, Rating: summary, UserRating: mine})
}

// requireBookOwner loads the book and enforces that the caller uploaded it
// or is an admin. Responds and returns nil on any failure.
func (h *BookHandler) requireBookOwner(c *gin.Context) *models.Book {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return nil
	}

	book, err := h.books.GetByID(c.Request.Context(), bookID)
	if err != nil {
		h.logger.Error("failed to get book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get book"})
		return nil
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return nil
	}
	if book.UploaderID != middleware.GetUserID(c) && !middleware.GetIsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the uploader or an admin may change this book"})
		return nil
	}
	return book
}

// Update handles PUT /v1/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	book := h.requireBookOwner(c)
	if book == nil {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.books.Update(c.Request.Context(), book.ID, req.Title, req.Author, req.Genre, req.Description)
	if err != nil {
		h.logger.Error("failed to update book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/books/:id. Uploaded files go with the row;
// file removal failures are logged, not surfaced.
func (h *BookHandler) Delete(c *gin.Context) {
	book := h.requireBookOwner(c)
	if book == nil {
		return
	}

	if err := h.books.Delete(c.Request.Context(), book.ID); err != nil {
		h.logger.Error("failed to delete book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}

	for _, path := range []string{book.CoverPath, book.PDFPath} {
		if path == "" {
			continue
		}
		if err := h.store.Remove(path); err != nil {
			h.logger.Warn("failed to remove book file", zap.String("path", path), zap.Error(err))
		}
	}

	c.Status(http.StatusNoContent)
}

// UploadCover handles POST /v1/books/:id/cover with a multipart "file".
func (h *BookHandler) UploadCover(c *gin.Context) {
	book := h.requireBookOwner(c)
	if book == nil {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer f.Close()

	path, err := h.store.SaveCover(fh.Filename, fh.Size, f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.books.SetCoverPath(c.Request.Context(), book.ID, path); err != nil {
		h.logger.Error("failed to set cover path", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if book.CoverPath != "" {
		if err := h.store.Remove(book.CoverPath); err != nil {
			h.logger.Warn("failed to remove old cover", zap.String("path", book.CoverPath), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"coverPath": path})
}

// UploadPDF handles POST /v1/books/:id/file with a multipart "file".
func (h *BookHandler) UploadPDF(c *gin.Context) {
	book := h.requireBookOwner(c)
	if book == nil {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer f.Close()

	path, err := h.store.SavePDF(fh.Filename, fh.Size, f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.books.SetPDFPath(c.Request.Context(), book.ID, path); err != nil {
		h.logger.Error("failed to set pdf path", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if book.PDFPath != "" {
		if err := h.store.Remove(book.PDFPath); err != nil {
			h.logger.Warn("failed to remove old pdf", zap.String("path", book.PDFPath), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"pdfPath": path})
}
