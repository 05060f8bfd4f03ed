package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"holdem-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	room    *room.Room
}

// NewMux returns a new HTTP mux serving the table
func NewMux(version string, r *room.Room) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		room:    r,
	}

	this.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Methods(http.MethodGet).Path("/table/ws").Handler(this.getTableWS())

	return this
}
