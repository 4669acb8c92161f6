package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
)

func TestListMyNotifications(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestProfile(t, db, "auth0|notifcust1", models.RoleCustomer)
	other := createTestProfile(t, db, "auth0|notifcust2", models.RoleCustomer)
	partner := createTestProfile(t, db, "auth0|notifpart1", models.RolePartner)
	shop := createTestShop(t, db, partner.ID)
	order := createTestOrder(t, db, customer.ID, shop.ID, models.StatusPickup, 3, 24000)

	seed := func(recipientID, body string) {
		notification := models.Notification{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			RecipientID: recipientID,
			Kind:        models.NotificationStatusChange,
			Body:        body,
		}
		assert.NoError(t, db.Create(&notification).Error)
	}

	seed(customer.ID, "Pesanan #abc123 sekarang pickup")
	seed(customer.ID, "Pesanan #abc123 sekarang washing")
	seed(other.ID, "Pesanan #zzz999 sekarang pickup")

	router := setupTestRouter()
	router.GET("/notifications",
		mockAuthMiddleware(customer.AuthID, models.RoleCustomer, "mock-token"),
		ListMyNotifications,
	)

	req, _ := http.NewRequest(http.MethodGet, "/notifications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2, "only the recipient's own notifications")

	first := data[0].(map[string]interface{})
	assert.Equal(t, order.ID, first["order_id"])
	assert.Equal(t, models.NotificationStatusChange, first["kind"])
}
