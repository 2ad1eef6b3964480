// Package clinic reads the clinic records shown on the navigator pages.
package clinic

// Cliente is a pet owner.
type Cliente struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone,omitempty"`
	Status   string `json:"status"`
}

// Sala is a consultation or procedure room.
type Sala struct {
	ID          int64  `json:"id"`
	Nome        string `json:"nome"`
	Tipo        string `json:"tipo,omitempty"`
	Capacidade  int    `json:"capacidade"`
	Status      string `json:"status"`
	Observacoes string `json:"observacoes,omitempty"`
}

// Agendamento is one appointment.
type Agendamento struct {
	ID               int64  `json:"id"`
	Cliente          string `json:"cliente"`
	Pet              string `json:"pet"`
	Sala             string `json:"sala"`
	Data             string `json:"data_agendamento"`
	Horario          string `json:"horario"`
	Status           string `json:"status"`
	CheckinRealizado bool   `json:"checkin_realizado"`
}
