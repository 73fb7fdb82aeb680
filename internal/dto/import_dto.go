package dto

import "encoding/json"

// ImportRow mirrors one historical sale row as exported by the legacy
// spreadsheet flow. Field names are the wire contract — do not anglicize.
// Total arrives as raw JSON because legacy exports mix numbers and strings
// ("42.5" vs 42.5); the importer normalizes and validates it per row.
type ImportRow struct {
	Cliente   string          `json:"cliente"`
	Vendedor  string          `json:"vendedor"`
	Itens     []string        `json:"itens"`
	Total     json.RawMessage `json:"total"`
	CreatedAt string          `json:"createdAt"`
}

type ImportRequest struct {
	Mode string      `json:"mode" validate:"required,oneof=append replace"`
	Rows []ImportRow `json:"rows" validate:"required,min=1"`
}

type ImportResponse struct {
	Inserted int    `json:"inserted"`
	Ignored  int    `json:"ignored"`
	ImportID string `json:"importId"`
}
