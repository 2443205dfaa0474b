package handlers

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"campuseats/cart"
	"campuseats/catalog"
	"campuseats/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// SessionHeader carries the cart session id.
const SessionHeader = "X-Session-ID"

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

func sessionStore(w http.ResponseWriter, r *http.Request, carts *cart.Registry) (*cart.Store, bool) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = r.URL.Query().Get("session")
	}
	s, err := carts.Get(id)
	if errors.Is(err, cart.ErrTooManySessions) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return s, true
}

// GetCartHandler returns the session's cart summary.
func GetCartHandler(carts *cart.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionStore(w, r, carts)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.Summary())
	}
}

// AddCartItemHandler adds a customised menu item to the cart.
func AddCartItemHandler(cache *catalog.Cache, carts *cart.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionStore(w, r, carts)
		if !ok {
			return
		}

		var c models.Customization
		if !decodeJSON(w, r, &c, "invalid request body") {
			return
		}
		if c.ItemID == "" {
			writeError(w, http.StatusBadRequest, "itemId is required")
			return
		}

		snap, ok := snapshot(w, cache)
		if !ok {
			return
		}
		item, found := snap.Item(c.ItemID)
		if !found {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}

		if _, err := s.Add(item, c); err != nil {
			if errors.Is(err, cart.ErrItemUnavailable) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			log.Error().Err(err).Str("item_id", c.ItemID).Msg("Adding cart item failed")
			writeError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		writeJSON(w, http.StatusCreated, s.Summary())
	}
}

// UpdateCartItemHandler changes a line's quantity. Quantities below 1 remove the line.
func UpdateCartItemHandler(carts *cart.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionStore(w, r, carts)
		if !ok {
			return
		}

		var body struct {
			Quantity *int `json:"quantity"`
		}
		if !decodeJSON(w, r, &body, "invalid request body") {
			return
		}
		if body.Quantity == nil {
			writeError(w, http.StatusBadRequest, "quantity is required")
			return
		}

		if _, err := s.UpdateQuantity(r.PathValue("lineID"), *body.Quantity); err != nil {
			writeLineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Summary())
	}
}

// RemoveCartItemHandler deletes a line.
func RemoveCartItemHandler(carts *cart.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionStore(w, r, carts)
		if !ok {
			return
		}
		if err := s.Remove(r.PathValue("lineID")); err != nil {
			writeLineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Summary())
	}
}

// ClearCartHandler empties the cart.
func ClearCartHandler(carts *cart.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionStore(w, r, carts)
		if !ok {
			return
		}
		s.Clear()
		writeJSON(w, http.StatusOK, s.Summary())
	}
}

func writeLineError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrLineNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}

// CartStreamHandler pushes cart events over a websocket. The first message is a
// "snapshot" event carrying the current summary.
func CartStreamHandler(carts *cart.Registry, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionStore(w, r, carts)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("Cart stream upgrade failed")
			return
		}
		defer conn.Close()

		events, cancel := s.Subscribe()
		defer cancel()

		// Reads only drive pong handling and close detection.
		closed := make(chan struct{})
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(streamPingPeriod)
		defer ping.Stop()

		send := func(ev cart.Event) error {
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			return conn.WriteJSON(ev)
		}

		if err := send(cart.Event{Op: "snapshot", Summary: s.Summary()}); err != nil {
			return
		}

		for {
			select {
			case <-closed:
				return
			case ev, open := <-events:
				if !open {
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
						time.Now().Add(streamWriteWait))
					return
				}
				if err := send(ev); err != nil {
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
