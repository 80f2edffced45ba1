// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// admin_events.go streams live menu state to the editor over
// server-sent events, so a preview pane or a second tab follows
// mutations without polling or refetching.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"menupress/internal/menustate"
	"menupress/internal/models"
	menusync "menupress/internal/sync"
)

// MenuEvents streams the restaurant's menu tree as SSE. The current tree
// is sent on connect, then one frame per local mutation. Every frame
// carries the full tree, so a dropped frame self-corrects on the next.
func (h *AdminHandler) MenuEvents(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Buffered so a slow client never blocks the mutating request.
	frames := make(chan *menustate.Snapshot, 8)
	unsubscribe := h.emitter.Subscribe(restaurant.ID, func(update menusync.Updater) {
		snap := update(nil)
		if snap == nil {
			return
		}
		select {
		case frames <- snap:
		default:
		}
	})
	defer unsubscribe()

	send := func(menu *models.FullMenu) bool {
		payload, err := json.Marshal(menu)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "event: menu\ndata: %s\n\n", payload); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(st.Tree()) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-frames:
			if !send(snap.Tree()) {
				return
			}
		}
	}
}
