package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
	"github.com/laundryin-id/laundryin-api/services"
	"github.com/laundryin-id/laundryin-api/utils"
)

// weighInMaxRetries bounds optimistic-lock retries on the weigh-in update
const weighInMaxRetries = 3

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	ShopID        string   `json:"shop_id" binding:"required"`
	ServiceID     string   `json:"service_id" binding:"required"`
	Weight        float64  `json:"weight" binding:"required,gt=0"`
	PickupAddress string   `json:"pickup_address" binding:"required"`
	Notes         string   `json:"notes"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// AdvanceStatusRequest represents the request body for a status transition
type AdvanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// WeighInRequest represents the request body for confirming real weight
type WeighInRequest struct {
	Weight float64 `json:"weight" binding:"required,gt=0"`
}

// PaymentRequest represents the request body for toggling payment status
type PaymentRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

// customerOrderView is an order enriched with the shop-side contact fields
// the customer list needs
type customerOrderView struct {
	models.Order
	LaundryName  string `json:"laundry_name"`
	PartnerPhone string `json:"partner_phone,omitempty"`
	WALink       string `json:"wa_link,omitempty"`
}

// shopOrderView is an order enriched with a customer contact link for the
// partner dashboard
type shopOrderView struct {
	models.Order
	WALink string `json:"wa_link,omitempty"`
}

// CreateOrder handles POST /api/v1/orders - places a new order (customers only).
// The service name and unit price are snapshotted: total_price = price * weight.
func CreateOrder(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	if profile.Role != models.RoleCustomer {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only customers can create orders")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	db := config.GetDB()

	var shop models.Shop
	if err := db.First(&shop, "id = ?", req.ShopID).Error; err != nil {
		respondError(c, http.StatusNotFound, "SHOP_NOT_FOUND", "Shop not found")
		return
	}
	if !shop.IsOpen {
		respondError(c, http.StatusConflict, "SHOP_CLOSED", "This shop is not accepting orders right now")
		return
	}

	var service models.Service
	if err := db.Where("id = ? AND shop_id = ?", req.ServiceID, shop.ID).First(&service).Error; err != nil {
		respondError(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found for this shop")
		return
	}
	if !service.IsActive {
		respondError(c, http.StatusConflict, "SERVICE_INACTIVE", "This service is no longer offered")
		return
	}

	weight := decimal.NewFromFloat(req.Weight)
	order := models.Order{
		ID:            uuid.NewString(),
		CustomerID:    profile.ID,
		ShopID:        shop.ID,
		ServiceName:   service.Name,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		Weight:        weight,
		TotalPrice:    service.Price.Mul(weight),
		PickupAddress: req.PickupAddress,
		Notes:         req.Notes,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Version:       1,
	}

	if err := db.Create(&order).Error; err != nil {
		log.Printf("Failed to create order: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order")
		return
	}

	publishOrderEvent(c, order, services.EventOrderCreated)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListMyOrders handles GET /api/v1/orders - the customer's own orders,
// newest first, with shop name and a WhatsApp contact link resolved.
// ?filter=active|history narrows to in-flight or terminal orders.
func ListMyOrders(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	query := config.GetDB().Preload("Shop").Preload("Shop.Owner").
		Where("customer_id = ?", profile.ID)
	switch c.Query("filter") {
	case "active":
		query = query.Where("status NOT IN ?", []models.Status{models.StatusCompleted, models.StatusCancelled})
	case "history":
		query = query.Where("status IN ?", []models.Status{models.StatusCompleted, models.StatusCancelled})
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		log.Printf("Failed to list orders: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders")
		return
	}

	views := make([]customerOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, customerOrderView{
			Order:        order,
			LaundryName:  order.Shop.Name,
			PartnerPhone: order.Shop.Owner.PhoneNumber,
			WALink:       utils.BuildWALink(order.Shop.Owner.PhoneNumber, order.ID, utils.WAToPartner),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// ListShopOrders handles GET /api/v1/shops/me/orders - the partner's
// dashboard order list with customer contact details.
func ListShopOrders(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Customer").
		Where("shop_id = ?", shop.ID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		log.Printf("Failed to list shop orders: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders")
		return
	}

	views := make([]shopOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, shopOrderView{
			Order:  order,
			WALink: utils.BuildWALink(order.Customer.PhoneNumber, order.ID, utils.WAToCustomer),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// AdvanceOrderStatus handles POST /api/v1/orders/:id/status - moves an order
// forward through the lifecycle. Only the shop that owns the order may do
// this, and only transitions in the forward table are accepted. The
// pickup -> washing move is reserved for the weigh-in endpoint because it
// recomputes the price.
func AdvanceOrderStatus(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	var req AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND shop_id = ?", c.Param("id"), shop.ID).First(&order).Error; err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found for your shop")
		return
	}

	target := models.Status(req.Status)
	if target == models.StatusWashing {
		respondError(c, http.StatusConflict, "WEIGH_IN_REQUIRED", "Use the weigh-in endpoint to move an order into washing")
		return
	}

	newStatus, err := order.Status.Advance(target)
	if err != nil {
		var transitionErr *models.TransitionError
		if errors.As(err, &transitionErr) {
			respondError(c, http.StatusConflict, "INVALID_TRANSITION", transitionErr.Error())
			return
		}
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result := db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"status":  newStatus,
			"version": order.Version + 1,
		})
	if result.Error != nil {
		log.Printf("Failed to update order status: %v", result.Error)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusConflict, "CONFLICT", "Order was modified concurrently, reload and retry")
		return
	}

	order.Status = newStatus
	order.Version++

	recordNotification(order, models.NotificationStatusChange,
		fmt.Sprintf("Pesanan #%.6s sekarang %s", order.ID, newStatus))
	publishOrderEvent(c, order, services.EventStatusChange)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ConfirmWeighIn handles POST /api/v1/orders/:id/weigh-in - the operator's
// confirmation of real weight. Recomputes the total from the stored values
// (unit = total/weight, new total = unit * confirmed) and moves the order
// into washing, all in one conditional write keyed on the order version.
func ConfirmWeighIn(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	var req WeighInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Confirmed weight must be greater than zero")
		return
	}
	confirmed := decimal.NewFromFloat(req.Weight)

	db := config.GetDB()
	orderID := c.Param("id")

	for attempt := 0; attempt < weighInMaxRetries; attempt++ {
		var order models.Order
		if err := db.Where("id = ? AND shop_id = ?", orderID, shop.ID).First(&order).Error; err != nil {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found for your shop")
			return
		}

		if order.Status != models.StatusPickup {
			respondError(c, http.StatusConflict, "INVALID_TRANSITION",
				(&models.TransitionError{From: order.Status, To: models.StatusWashing, Reason: "weigh-in requires pickup status"}).Error())
			return
		}

		newTotal, err := order.RecomputeAtWeighIn(confirmed)
		if err != nil {
			if errors.Is(err, models.ErrZeroWeight) {
				respondError(c, http.StatusBadRequest, "ZERO_WEIGHT", "Stored weight is zero, unit price cannot be derived")
				return
			}
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to recompute price")
			return
		}

		result := db.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"weight":      confirmed,
				"total_price": newTotal,
				"status":      models.StatusWashing,
				"version":     order.Version + 1,
			})
		if result.Error != nil {
			log.Printf("Failed to confirm weigh-in: %v", result.Error)
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order")
			return
		}
		if result.RowsAffected == 0 {
			// Lost the race against a concurrent writer; re-read and retry
			continue
		}

		order.Weight = confirmed
		order.TotalPrice = newTotal
		order.Status = models.StatusWashing
		order.Version++

		recordNotification(order, models.NotificationStatusChange,
			fmt.Sprintf("Pesanan #%.6s ditimbang: %s kg, total Rp %s", order.ID, confirmed, newTotal))
		publishOrderEvent(c, order, services.EventStatusChange)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    order,
		})
		return
	}

	respondError(c, http.StatusConflict, "CONFLICT", "Order was modified concurrently, reload and retry")
}

// TogglePayment handles POST /api/v1/orders/:id/payment - sets the bill
// state. Orthogonal to the lifecycle: allowed in any status, idempotent,
// and never touches the status column.
func TogglePayment(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND shop_id = ?", c.Param("id"), shop.ID).First(&order).Error; err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found for your shop")
		return
	}

	newStatus := models.PaymentUnpaid
	if *req.Paid {
		newStatus = models.PaymentPaid
	}

	if order.PaymentStatus != newStatus {
		if err := db.Model(&order).Update("payment_status", newStatus).Error; err != nil {
			log.Printf("Failed to update payment status: %v", err)
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update payment status")
			return
		}
		order.PaymentStatus = newStatus

		recordNotification(order, models.NotificationPaymentChange,
			fmt.Sprintf("Pesanan #%.6s: pembayaran %s", order.ID, newStatus))
		publishOrderEvent(c, order, services.EventPaymentChange)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// recordNotification writes a bookkeeping row for the order's customer.
// Failures are logged but never fail the triggering request.
func recordNotification(order models.Order, kind, body string) {
	notification := models.Notification{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		RecipientID: order.CustomerID,
		Kind:        kind,
		Body:        body,
	}
	if err := config.GetDB().Create(&notification).Error; err != nil {
		log.Printf("Failed to record notification for order %s: %v", order.ID, err)
	}
}

// publishOrderEvent pushes a change-feed event for the order's shop.
// Failures are logged but never fail the triggering request.
func publishOrderEvent(c *gin.Context, order models.Order, kind string) {
	event := services.OrderEvent{
		ShopID:  order.ShopID,
		OrderID: order.ID,
		Kind:    kind,
	}
	if err := services.GetFeed().Publish(c.Request.Context(), event); err != nil {
		log.Printf("Failed to publish %s event for order %s: %v", kind, order.ID, err)
	}
}
