package model

import "time"

// Group is a small group or ministry that meets regularly
type Group struct {
	Record
	Nombre      string `json:"Nombre"`
	Descripcion string `json:"Descripcion,omitempty"`
	Tipo        string `json:"Tipo"`
	Lider       string `json:"Lider,omitempty"`
	DiaReunion  string `json:"DiaReunion,omitempty"`
	Horario     string `json:"Horario,omitempty"`
	Lugar       string `json:"Lugar,omitempty"`
}

// DefaultGroupTipo is used when a group is created without a type
const DefaultGroupTipo = "Celula"

func NewGroup(nombre string) *Group {
	g := &Group{Nombre: nombre}
	g.ApplyDefaults(time.Now().UTC())
	return g
}

func (g *Group) ApplyDefaults(now time.Time) {
	g.stamp(now)
	if g.Tipo == "" {
		g.Tipo = DefaultGroupTipo
	}
}

func (g *Group) Label() string {
	return g.Nombre
}
