package handler

import (
	"net/http"

	"bookstore/bookstore-service/internal/app/bookstore/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	catalogService service.CatalogServiceInterface
}

func NewBookHandler(catalogService service.CatalogServiceInterface) *BookHandler {
	return &BookHandler{catalogService: catalogService}
}

func (h *BookHandler) GetAllBooks(c *gin.Context) {
	books, err := h.catalogService.GetAllBooks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	book, err := h.catalogService.GetBookByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) GetBooksByAuthor(c *gin.Context) {
	books, err := h.catalogService.GetBooksByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) GetBooksByTitle(c *gin.Context) {
	books, err := h.catalogService.GetBooksByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}
