package transport

import (
	"net/http"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest represents the create/update payload. Pointers tell a
// missing field apart from a zero value.
type ProductRequest struct {
	ID          *int64   `json:"id"`
	Name        *string  `json:"name" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Quantity    *int     `json:"quantity" validate:"required"`
	Type        *string  `json:"type" validate:"required"`
	Gender      *string  `json:"gender" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	PictureURL  *string  `json:"picture_url"`
	Category    *string  `json:"category" validate:"required"`
}

func (req *ProductRequest) toProduct() *domain.Product {
	product := &domain.Product{
		Name:        *req.Name,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Type:        *req.Type,
		Gender:      *req.Gender,
		Description: *req.Description,
		PictureURL:  req.PictureURL,
		Category:    *req.Category,
	}
	if req.ID != nil {
		product.ID = *req.ID
	}
	return product
}

// ReservationResponse is returned after a cart reservation. Quantity is the
// stored stock, which a reservation does not change.
type ReservationResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// UpdateResponse echoes the stored product with a confirmation message
type UpdateResponse struct {
	Message string `json:"message"`
	*domain.Product
}

// MessageResponse carries a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/products", h.ListProducts)
	r.Get("/showcase/{product_id}", h.ShowProduct)
	r.Get("/getproduct/{product_id}/{product_quantity}/{user_id}", h.ReserveProduct)
	r.Get("/buyproduct/{product_id}/{product_quantity}", h.BuyProduct)
	r.Post("/addproducts", h.CreateProduct)
	r.Put("/updateproduct/{product_id}", h.UpdateProduct)
	r.Delete("/deleteproduct/{product_id}", h.DeleteProduct)
}

// Root is the liveness message
func (h *ProductHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Hello World"})
}

// ListProducts returns every product
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.respondWithDomainError(w, err, "Failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ShowProduct returns a single product
func (h *ProductHandler) ShowProduct(w http.ResponseWriter, r *http.Request) {
	id, verr := middleware.IntURLParam(r, "product_id")
	if verr != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{*verr})
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.respondWithDomainError(w, err, "Failed to get product", zap.Int64("product_id", id))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ReserveProduct adds quantity units of a product to a user's cart
func (h *ProductHandler) ReserveProduct(w http.ResponseWriter, r *http.Request) {
	id, quantity, userID, verrs := parseReservePath(r)
	if len(verrs) > 0 {
		middleware.RespondWithValidationErrors(w, verrs)
		return
	}

	product, err := h.catalog.Reserve(r.Context(), id, quantity, userID)
	if err != nil {
		h.respondWithDomainError(w, err, "Failed to reserve product",
			zap.Int64("product_id", id),
			zap.Int64("user_id", userID),
		)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReservationResponse{
		ID:       product.ID,
		Name:     product.Name,
		Quantity: product.Quantity,
		Price:    product.Price,
	})
}

// BuyProduct removes quantity units from stock
func (h *ProductHandler) BuyProduct(w http.ResponseWriter, r *http.Request) {
	var verrs []middleware.ValidationError

	id, verr := middleware.IntURLParam(r, "product_id")
	if verr != nil {
		verrs = append(verrs, *verr)
	}
	quantity, verr := middleware.NonNegativeIntURLParam(r, "product_quantity")
	if verr != nil {
		verrs = append(verrs, *verr)
	}
	if len(verrs) > 0 {
		middleware.RespondWithValidationErrors(w, verrs)
		return
	}

	result, err := h.catalog.Purchase(r.Context(), id, int(quantity))
	if err != nil {
		h.respondWithDomainError(w, err, "Failed to buy product",
			zap.Int64("product_id", id),
			zap.Int64("quantity", quantity),
		)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// CreateProduct adds a product to the catalog
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create product validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	product, err := h.catalog.Create(r.Context(), req.toProduct())
	if err != nil {
		h.respondWithDomainError(w, err, "Failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct overwrites a product; the path id wins over any body id
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, verr := middleware.IntURLParam(r, "product_id")
	if verr != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{*verr})
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update product validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	product, err := h.catalog.Update(r.Context(), id, req.toProduct())
	if err != nil {
		h.respondWithDomainError(w, err, "Failed to update product", zap.Int64("product_id", id))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UpdateResponse{
		Message: "Product updated successfully",
		Product: product,
	})
}

// DeleteProduct removes a product
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, verr := middleware.IntURLParam(r, "product_id")
	if verr != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{*verr})
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.respondWithDomainError(w, err, "Failed to delete product", zap.Int64("product_id", id))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

func parseReservePath(r *http.Request) (id int64, quantity int, userID int64, verrs []middleware.ValidationError) {
	id, verr := middleware.IntURLParam(r, "product_id")
	if verr != nil {
		verrs = append(verrs, *verr)
	}
	qty, verr := middleware.NonNegativeIntURLParam(r, "product_quantity")
	if verr != nil {
		verrs = append(verrs, *verr)
	}
	userID, verr = middleware.IntURLParam(r, "user_id")
	if verr != nil {
		verrs = append(verrs, *verr)
	}
	return id, int(qty), userID, verrs
}
