package model

import (
	"strings"
	"time"
)

// Member types
const (
	TipoVisitante = "Visitante"
	TipoMiembro   = "Miembro"
	TipoServidor  = "Servidor"
	TipoLider     = "Lider"
	TipoPastor    = "Pastor"
)

// TiposMiembro lists every accepted TipoMiembro value
var TiposMiembro = []string{TipoVisitante, TipoMiembro, TipoServidor, TipoLider, TipoPastor}

// Member is a person in the church community
type Member struct {
	Record
	Nombre          string `json:"Nombre"`
	Apellido        string `json:"Apellido,omitempty"`
	Email           string `json:"Email,omitempty"`
	Telefono        string `json:"Telefono,omitempty"`
	Direccion       string `json:"Direccion,omitempty"`
	FechaNacimiento string `json:"FechaNacimiento,omitempty"`
	TipoMiembro     string `json:"TipoMiembro"`
	Notas           string `json:"Notas,omitempty"`
}

// NewMember creates a member with defaults applied
func NewMember(nombre, apellido string) *Member {
	m := &Member{Nombre: nombre, Apellido: apellido}
	m.ApplyDefaults(time.Now().UTC())
	return m
}

func (m *Member) ApplyDefaults(now time.Time) {
	m.stamp(now)
	if m.TipoMiembro == "" {
		m.TipoMiembro = TipoVisitante
	}
}

func (m *Member) Label() string {
	return strings.TrimSpace(m.Nombre + " " + m.Apellido)
}
