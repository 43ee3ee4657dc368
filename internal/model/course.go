package model

import "time"

// Course states
const (
	EstadoAbierto    = "Abierto"
	EstadoEnCurso    = "EnCurso"
	EstadoFinalizado = "Finalizado"
)

// EstadosCurso lists every accepted course state
var EstadosCurso = []string{EstadoAbierto, EstadoEnCurso, EstadoFinalizado}

// Course is a class members can enroll in
type Course struct {
	Record
	Nombre      string `json:"Nombre"`
	Descripcion string `json:"Descripcion,omitempty"`
	Instructor  string `json:"Instructor,omitempty"`
	FechaInicio string `json:"FechaInicio,omitempty"`
	FechaFin    string `json:"FechaFin,omitempty"`
	Estado      string `json:"Estado"`
}

func NewCourse(nombre string) *Course {
	c := &Course{Nombre: nombre}
	c.ApplyDefaults(time.Now().UTC())
	return c
}

func (c *Course) ApplyDefaults(now time.Time) {
	c.stamp(now)
	if c.Estado == "" {
		c.Estado = EstadoAbierto
	}
}

func (c *Course) Label() string {
	return c.Nombre
}
