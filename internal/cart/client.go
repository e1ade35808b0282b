package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"product-catalog/internal/domain"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a reservation call when none is configured.
const DefaultTimeout = 5 * time.Second

// ErrUpstream is returned for any failed reservation. The upstream's own
// error text is logged, never returned to API callers.
var ErrUpstream = errors.New("failed to add item to cart")

// Reserver registers cart-item reservations with the cart service
type Reserver interface {
	ReserveItem(ctx context.Context, userID int64, item domain.CartItem) error
}

// Client talks to the cart service over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a cart client rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ReserveItem posts item to /cart/add-item/{userID}. Any 2xx is success.
func (c *Client) ReserveItem(ctx context.Context, userID int64, item domain.CartItem) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode cart item: %w", err)
	}

	url := c.baseURL + "/cart/add-item/" + strconv.FormatInt(userID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Cart service unreachable",
			zap.String("url", url),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Cart service rejected reservation",
			zap.String("url", url),
			zap.Int64("user_id", userID),
			zap.Int64("product_id", item.ProductID),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	c.logger.Debug("Cart reservation accepted",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", item.ProductID),
		zap.Int("quantity", item.Quantity),
	)
	return nil
}

// requestID reuses the inbound request id so both services log the same one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
