package model

import "time"

// Event is a dated church activity
type Event struct {
	Record
	Nombre      string    `json:"Nombre"`
	Descripcion string    `json:"Descripcion,omitempty"`
	Fecha       time.Time `json:"Fecha"`
	Lugar       string    `json:"Lugar,omitempty"`
	Tipo        string    `json:"Tipo"`
}

// DefaultEventTipo is used when an event is created without a type
const DefaultEventTipo = "General"

func NewEvent(nombre string) *Event {
	e := &Event{Nombre: nombre}
	e.ApplyDefaults(time.Now().UTC())
	return e
}

// ApplyDefaults schedules undated events for now.
func (e *Event) ApplyDefaults(now time.Time) {
	e.stamp(now)
	if e.Fecha.IsZero() {
		e.Fecha = now
	}
	if e.Tipo == "" {
		e.Tipo = DefaultEventTipo
	}
}

func (e *Event) Label() string {
	return e.Nombre
}
