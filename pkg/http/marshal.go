package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
)

func MarshalJSON(w http.ResponseWriter, i any) {
	MarshalJSONWithStatus(w, i, http.StatusOK)
}

func MarshalJSONWithStatus(w http.ResponseWriter, i any, status int) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	if i == nil {
		return
	}
	err := json.NewEncoder(w).Encode(i)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// maxRequestBody caps registration request bodies; a metadata record has no
// business being larger.
const maxRequestBody = 1 << 20

// UnmarshalJSONRequest decodes the JSON body of r into dst. The request must
// carry an application/json content type, with any parameters ignored.
func UnmarshalJSONRequest(r *http.Request, dst any) error {
	contentType := r.Header.Get("content-type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("parse content type: %w", err)
		}
		if mediaType != "application/json" {
			return fmt.Errorf("unsupported content type %s, expected application/json", mediaType)
		}
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if err = json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("unmarshal request body: %w", err)
	}
	return nil
}
