package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
	"github.com/laundryin-id/laundryin-api/services"
)

// sseRecorder adds the CloseNotify method gin's streaming path requires
// on top of the standard recorder
type sseRecorder struct {
	*httptest.ResponseRecorder
	closeNotify chan bool
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		closeNotify:      make(chan bool, 1),
	}
}

func (r *sseRecorder) CloseNotify() <-chan bool {
	return r.closeNotify
}

// streamShopEvents runs the SSE handler with a deadline and returns the
// body written before the client disconnected
func streamShopEvents(t *testing.T, authID string, timeout time.Duration) string {
	t.Helper()

	router := setupTestRouter()
	router.GET("/shops/me/events",
		mockAuthMiddleware(authID, models.RolePartner, "mock-token"),
		StreamShopEvents,
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/shops/me/events", nil)
	w := newSSERecorder()
	router.ServeHTTP(w, req)
	return w.Body.String()
}

func TestStreamShopEvents(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	feed := services.NewMemoryFeed()
	services.SetFeed(feed)
	defer feed.Close()

	customer := createTestProfile(t, db, "auth0|feedcust", models.RoleCustomer)
	partner := createTestProfile(t, db, "auth0|feedpart1", models.RolePartner)
	shop := createTestShop(t, db, partner.ID)

	otherPartner := createTestProfile(t, db, "auth0|feedpart2", models.RolePartner)
	otherShop := createTestShop(t, db, otherPartner.ID)

	order := createTestOrder(t, db, customer.ID, shop.ID, models.StatusPending, 3, 24000)

	t.Run("subscriber receives a refresh for its shop", func(t *testing.T) {
		go func() {
			// Give the handler time to subscribe before publishing
			time.Sleep(100 * time.Millisecond)
			feed.Publish(context.Background(), services.OrderEvent{
				ShopID:  shop.ID,
				OrderID: order.ID,
				Kind:    services.EventStatusChange,
			})
		}()

		body := streamShopEvents(t, partner.AuthID, 1500*time.Millisecond)
		assert.Contains(t, body, "event:refresh")
		assert.Contains(t, body, shop.ID)
	})

	t.Run("a burst coalesces into one refresh", func(t *testing.T) {
		go func() {
			time.Sleep(100 * time.Millisecond)
			for i := 0; i < 5; i++ {
				feed.Publish(context.Background(), services.OrderEvent{
					ShopID:  shop.ID,
					OrderID: order.ID,
					Kind:    services.EventStatusChange,
				})
			}
		}()

		body := streamShopEvents(t, partner.AuthID, 1500*time.Millisecond)
		assert.Equal(t, 1, strings.Count(body, "event:refresh"))
	})

	t.Run("another shop's events never reach this stream", func(t *testing.T) {
		go func() {
			time.Sleep(100 * time.Millisecond)
			feed.Publish(context.Background(), services.OrderEvent{
				ShopID:  shop.ID,
				OrderID: order.ID,
				Kind:    services.EventOrderCreated,
			})
		}()

		body := streamShopEvents(t, otherPartner.AuthID, 1000*time.Millisecond)
		assert.NotContains(t, body, "event:refresh")
		assert.NotContains(t, body, otherShop.ID)
	})

	t.Run("customers cannot open the shop stream", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/shops/me/events",
			mockAuthMiddleware(customer.AuthID, models.RoleCustomer, "mock-token"),
			StreamShopEvents,
		)

		req, _ := http.NewRequest(http.MethodGet, "/shops/me/events", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
