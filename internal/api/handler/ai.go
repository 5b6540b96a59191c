package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/api"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
)

// AIHandler handles the model-proxy endpoints
type AIHandler struct {
	aiService *service.AIService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// AnalyzeRoom matches catalog products to an uploaded room photo
func (h *AIHandler) AnalyzeRoom(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		api.BadRequest(w, "Invalid multipart form")
		return
	}

	roomImage, _, _, err := readFormFile(r, "roomImage")
	if err != nil {
		api.BadRequest(w, "Invalid room image")
		return
	}
	if len(roomImage) == 0 {
		api.BadRequest(w, "Room image is required")
		return
	}

	result, err := h.aiService.AnalyzeRoom(r.Context(), roomImage, r.FormValue("style"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, result)
}

// GenerateImage renders the room with the selected products placed in it
func (h *AIHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		api.BadRequest(w, "Invalid multipart form")
		return
	}

	roomImage, _, _, err := readFormFile(r, "roomImage")
	if err != nil {
		api.BadRequest(w, "Invalid room image")
		return
	}
	if len(roomImage) == 0 {
		api.BadRequest(w, "Room image is required")
		return
	}

	raw := r.FormValue("selectedProductIds")
	if raw == "" {
		api.BadRequest(w, "selectedProductIds is required")
		return
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			api.BadRequest(w, "Invalid product ID: "+part)
			return
		}
		ids = append(ids, id)
	}

	result, err := h.aiService.GenerateRoomImage(r.Context(), roomImage, r.FormValue("style"), ids)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, result)
}
