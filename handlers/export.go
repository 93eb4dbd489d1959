package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"backoffice-console/middleware"
	"backoffice-console/models"
	"backoffice-console/queries"
	"backoffice-console/utils"
)

const (
	HeaderExportTotal     = "X-Export-Total"
	HeaderExportTruncated = "X-Export-Truncated"
)

// export streams every matching row as a CSV attachment. An empty result is
// answered with 204.
func export[Row any](c *Console, subject string, collect func(q *queries.Queries, ctx context.Context, p models.ListParams) (models.Export[Row], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := middleware.WorkspaceFromContext(r.Context())
		p, err := listParams(r.URL.Query())
		if err != nil {
			c.fail(w, r, err, nil)
			return
		}
		result, err := collect(ws.Queries, r.Context(), p)
		if err != nil {
			c.fail(w, r, err, nil)
			return
		}
		data, err := utils.ExportCSV(result.Rows)
		if err != nil {
			c.fail(w, r, fmt.Errorf("error exporting %s: %w", subject, err), nil)
			return
		}
		if data == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", utils.ExportFilename(subject)))
		w.Header().Set(HeaderExportTotal, strconv.Itoa(result.Total))
		if result.Truncated {
			w.Header().Set(HeaderExportTruncated, "true")
		}
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		c.log.WithFields(logrus.Fields{"rows": len(result.Rows), "subject": subject, "truncated": result.Truncated}).Info("csv export served")
	}
}
