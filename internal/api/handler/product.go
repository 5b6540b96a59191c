package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/api"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
)

// maxUploadSize bounds multipart image uploads (5MB, as the original
// storefront allowed).
const maxUploadSize = 5 << 20

// ProductHandler handles catalog requests
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// List returns all products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.List(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, products)
}

// Get returns a product by ID
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.BadRequest(w, "Invalid product ID")
		return
	}

	product, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, product)
}

// Image streams a product's stored image bytes
func (h *ProductHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.BadRequest(w, "Invalid product ID")
		return
	}

	body, contentType, err := h.catalogService.Image(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, body)
}

// ListByCategory returns all products in a category
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, products)
}

// Categories returns the distinct product categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.Categories(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, categories)
}

// RandomPerCategory returns one random product per category
func (h *ProductHandler) RandomPerCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.RandomPerCategory(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, products)
}

// Search returns products matching the query, tolerating small typos
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, products)
}

// Create creates a product from a multipart form with an image
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, image, filename, contentType, err := parseProductForm(r)
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	product, err := h.catalogService.Create(r.Context(), req, image, filename, contentType)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, product)
}

// Update updates a product; the image part is optional
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.BadRequest(w, "Invalid product ID")
		return
	}

	req, image, filename, contentType, err := parseProductForm(r)
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	product, err := h.catalogService.Update(r.Context(), id, req, image, filename, contentType)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, product)
}

// Delete removes a product and its stored image
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.BadRequest(w, "Invalid product ID")
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// UpdateStock sets a product's quantity directly
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.BadRequest(w, "Invalid product ID")
		return
	}

	var req models.StockUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		api.BadRequest(w, "Invalid request body")
		return
	}

	product, err := h.catalogService.SetStock(r.Context(), id, req.Quantity)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, product)
}

// parseProductForm reads the multipart product fields and the optional
// image part.
func parseProductForm(r *http.Request) (models.ProductRequest, []byte, string, string, error) {
	var req models.ProductRequest

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return req, nil, "", "", err
	}

	req.Name = r.FormValue("name")
	req.Category = r.FormValue("category")
	req.ShortDescription = r.FormValue("short_description")
	req.LongDescription = r.FormValue("long_description")
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, nil, "", "", err
		}
		req.Price = price
	}
	if v := r.FormValue("quantity"); v != "" {
		quantity, err := strconv.Atoi(v)
		if err != nil {
			return req, nil, "", "", err
		}
		req.Quantity = quantity
	}

	image, filename, contentType, err := readFormFile(r, "image")
	if err != nil {
		return req, nil, "", "", err
	}

	return req, image, filename, contentType, nil
}

// readFormFile reads a named file part; a missing part is not an error.
func readFormFile(r *http.Request, field string) ([]byte, string, string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", "", nil
	}
	if err != nil {
		return nil, "", "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", "", err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, header.Filename, contentType, nil
}
