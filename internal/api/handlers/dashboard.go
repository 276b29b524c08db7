package handlers

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html><head><title>Waitlist Dashboard</title>
<style>
  body { font-family: Arial, sans-serif; padding: 20px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #999; padding: 8px; }
  th { background: #eee; }
</style></head><body>
  <h1>Carly Compare Waitlist</h1>
  {{if not .}}<p>No submissions yet</p>{{else}}
  <table>
    <thead>
      <tr><th>Submitted</th><th>Name</th><th>Email</th><th>Make</th><th>Model</th></tr>
    </thead>
    <tbody>
    {{range .}}<tr>
      <td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
      <td>{{.Name}}</td><td>{{.Email}}</td><td>{{.Make}}</td><td>{{.Model}}</td>
    </tr>{{end}}
    </tbody>
  </table>
  {{end}}
</body></html>
`))

// Dashboard renders the waitlist submissions as an HTML table for operators.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListWaitlistEntries(r.Context())
	if err != nil {
		http.Error(w, "Error loading submissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, entries); err != nil {
		log.Error().Err(err).Msg("Failed to render dashboard")
	}
}
