package controllers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/laundryin-id/laundryin-api/services"
)

const (
	// refreshWindow coalesces event bursts: at most one refresh signal is
	// emitted per window
	refreshWindow = 500 * time.Millisecond

	// heartbeatInterval keeps idle SSE connections alive through proxies
	heartbeatInterval = 25 * time.Second
)

// StreamShopEvents handles GET /api/v1/shops/me/events - an SSE stream that
// tells the partner dashboard to refresh its order list. The subscription is
// scoped to the caller's own shop; other shops' events never reach it.
// Bursts are coalesced so a busy shop cannot outpace its dashboard.
func StreamShopEvents(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	events, cancel, err := services.GetFeed().Subscribe(c.Request.Context(), shop.ID)
	if err != nil {
		respondError(c, 500, "FEED_ERROR", "Failed to subscribe to order events")
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	var window *time.Timer
	var windowC <-chan time.Time
	pending := 0

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false

		case _, open := <-events:
			if !open {
				return false
			}
			pending++
			if windowC == nil {
				// First event of a burst opens the coalescing window
				window = time.NewTimer(refreshWindow)
				windowC = window.C
			}
			return true

		case <-windowC:
			windowC = nil
			if pending > 0 {
				pending = 0
				c.SSEvent("refresh", gin.H{"shop_id": shop.ID})
			}
			return true

		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})

	if window != nil {
		window.Stop()
	}
}
