package http

import (
	"errors"
	"net/http"

	"github.com/datadash-io/datadash/internal/dash/charts"
	"github.com/datadash-io/datadash/internal/dash/service"
	"github.com/datadash-io/datadash/pkg/httpx"
)

type ChartsHandler struct {
	UploadService *service.UploadService
}

type chartResponse struct {
	Series charts.Series `json:"series"`
	Views  []string      `json:"views"`
}

// HandleGet parses a stored delimited file into one chart series. Every view
// renders from the same series, so it is returned once alongside the view
// names.
func (h *ChartsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	f, _, err := h.UploadService.OpenFile(r.Context(), r.PathValue("storedName"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	series, err := charts.SeriesFromTable(f)
	if err != nil {
		if errors.Is(err, charts.ErrEmptyTable) {
			httpx.WriteError(w, http.StatusBadRequest, "file has no chartable rows")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chartResponse{
		Series: series,
		Views:  charts.Views,
	})
}
