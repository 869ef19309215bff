package web

import "github.com/sweeney/dual-led/internal/status"

func formatJSON(snap status.Snapshot) []byte {
	return status.FormatJSON(snap)
}
