package reports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ExportPath is where the workbook is served.
const ExportPath = "/relatorios/export.xlsx"

// RegisterRoutes mounts the export endpoint on the given router.
func RegisterRoutes(r chi.Router, exporter *Exporter) {
	r.Get(ExportPath, handleExport(exporter))
}

func handleExport(exporter *Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := exporter.Bytes(r.Context())
		if err != nil {
			slog.Error("Failed to build report export", "error", err, "component", "Reports")
			http.Error(w, "could not build report", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.Filename()+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
