package transport

import (
	"net/http"

	"vitalux-store/internal/domain"
	"vitalux-store/internal/middleware"
	"vitalux-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart request payload. SessionID
// is optional; when omitted the session cookie identity is used.
type AddToCartRequest struct {
	SessionID string `json:"sessionId" validate:"omitempty,uuid"`
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// UpdateCartItemRequest represents the quantity update payload. A quantity
// of zero or less removes the line item.
type UpdateCartItemRequest struct {
	SessionID string `json:"sessionId" validate:"omitempty,uuid"`
	Quantity  int    `json:"quantity"`
}

// CartResponse is the mutation response: the success flag plus the
// re-fetched cart, which is the post-mutation source of truth
type CartResponse struct {
	Success    bool              `json:"success"`
	Items      []domain.CartItem `json:"items"`
	TotalPrice float64           `json:"total_price"`
	TotalItems int               `json:"total_items"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Post("/", h.AddToCart)
		r.Get("/{sessionId}", h.GetCart)
		r.Put("/{id}", h.UpdateQuantity)
		r.Delete("/{id}", h.RemoveItem)
	})
}

// AddToCart handles POST /api/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	sessionID := h.resolveSession(r, req.SessionID)
	if sessionID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing session id")
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	cart, err := h.cartService.AddToCart(r.Context(), sessionID, productID, quantity)
	if err != nil {
		if err == service.ErrUnknownProduct || err == service.ErrInvalidQuantity {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.Error("Failed to add to cart",
			zap.Error(err),
			zap.String("session_id", sessionID),
			zap.String("product_id", productID.String()),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	h.logger.Info("Added to cart",
		zap.String("session_id", sessionID),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity),
	)
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// GetCart handles GET /api/cart/{sessionId}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing session id")
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to fetch cart", zap.Error(err), zap.String("session_id", sessionID))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart.Items)
}

// UpdateQuantity handles PUT /api/cart/{id}. Setting a quantity of zero or
// less deletes the line item; updating an absent item is a no-op.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := h.resolveSession(r, req.SessionID)

	if _, err := h.cartService.UpdateQuantity(r.Context(), sessionID, itemID, req.Quantity); err != nil {
		h.logger.Error("Failed to update cart item",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RemoveItem handles DELETE /api/cart/{id}. Removing an absent item is a
// no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	sessionID := h.resolveSession(r, "")

	if _, err := h.cartService.RemoveItem(r.Context(), sessionID, itemID); err != nil {
		h.logger.Error("Failed to remove cart item",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// resolveSession prefers an explicit session id from the payload and falls
// back to the session cookie identity
func (h *CartHandler) resolveSession(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if sessionID, ok := middleware.GetSessionID(r.Context()); ok {
		return sessionID
	}
	return ""
}

func newCartResponse(cart *domain.Cart) CartResponse {
	return CartResponse{
		Success:    true,
		Items:      cart.Items,
		TotalPrice: cart.TotalPrice(),
		TotalItems: cart.TotalItems(),
	}
}
