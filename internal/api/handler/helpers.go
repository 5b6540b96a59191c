package handler

import (
	"encoding/json"
	"net/http"
)

// decodeJSON decodes the request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
