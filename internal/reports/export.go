// Package reports builds the spreadsheet export of the reports pages.
package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ziadkadry99/agenda-vta/internal/clinic"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

// Sheet names in the exported workbook.
const (
	SheetResumo       = "Resumo"
	SheetSalas        = "Salas"
	SheetAgendamentos = "Agendamentos"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter writes the dashboard counters, the rooms and the appointments of
// a day into an XLSX workbook.
type Exporter struct {
	stats  stats.Provider
	clinic *clinic.Store
	now    func() time.Time
}

// NewExporter creates an Exporter.
func NewExporter(provider stats.Provider, store *clinic.Store) *Exporter {
	return &Exporter{stats: provider, clinic: store, now: time.Now}
}

var resumoLabels = map[string]string{
	stats.SlotConsultasHoje:    "Consultas hoje",
	stats.SlotSalasDisponiveis: "Salas disponíveis",
	stats.SlotSalasOcupadas:    "Salas ocupadas",
	stats.SlotClientesAtivos:   "Clientes ativos",
}

// Build assembles the workbook. The caller must Close it.
func (e *Exporter) Build(ctx context.Context) (*excelize.File, error) {
	current, err := e.stats.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	rooms, err := e.clinic.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	today := e.now()
	appointments, err := e.clinic.AppointmentsOn(ctx, today)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetResumo); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	if err := writeResumo(f, current, today); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRows(f, SheetSalas,
		[]any{"Nome", "Tipo", "Capacidade", "Status", "Observações"},
		len(rooms), func(i int) []any {
			r := rooms[i]
			return []any{r.Nome, r.Tipo, r.Capacidade, r.Status, r.Observacoes}
		}); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRows(f, SheetAgendamentos,
		[]any{"Horário", "Cliente", "Pet", "Sala", "Status", "Check-in"},
		len(appointments), func(i int) []any {
			a := appointments[i]
			checkin := "não"
			if a.CheckinRealizado {
				checkin = "sim"
			}
			return []any{a.Horario, a.Cliente, a.Pet, a.Sala, a.Status, checkin}
		}); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// Bytes builds the workbook and returns its encoded form.
func (e *Exporter) Bytes(ctx context.Context) ([]byte, error) {
	f, err := e.Build(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Filename returns the download name for the export of the current day.
func (e *Exporter) Filename() string {
	return "relatorio_vta_" + e.now().Format("2006-01-02") + ".xlsx"
}

func writeResumo(f *excelize.File, s stats.Stats, day time.Time) error {
	if err := f.SetCellValue(SheetResumo, "A1", "Data"); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := f.SetCellValue(SheetResumo, "B1", day.Format("02/01/2006")); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	values := s.Values()
	for i, slot := range stats.Slots {
		label, _ := excelize.CoordinatesToCellName(1, i+2)
		value, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := f.SetCellValue(SheetResumo, label, resumoLabels[slot]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		if err := f.SetCellValue(SheetResumo, value, values[slot]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header []any, n int, row func(int) []any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("opening sheet %s: %w", sheet, err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i := 0; i < n; i++ {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row(i)); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet %s: %w", sheet, err)
	}
	return nil
}
