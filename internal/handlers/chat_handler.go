package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bioconsult/internal/llm"
	"bioconsult/internal/models"
	"bioconsult/internal/services"
)

// FallbackAnswer is returned whenever the pipeline could not produce a
// grounded answer. The chat endpoint never exposes raw errors.
const FallbackAnswer = "I could not produce an answer for that question right now. " +
	"Please try again, or rephrase the question."

// ChatHandler answers questions over the indexed corpus
type ChatHandler struct {
	retrieval *services.RetrievalService
	assembler *services.ContextAssembler
	router    *llm.Router
	logger    *log.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(retrieval *services.RetrievalService, assembler *services.ContextAssembler, router *llm.Router, logger *log.Logger) *ChatHandler {
	return &ChatHandler{
		retrieval: retrieval,
		assembler: assembler,
		router:    router,
		logger:    logger,
	}
}

// Chat handles question answering requests
// @Summary Ask a question
// @Description Answer a question grounded in the indexed corpus. With use_retrieval=false the model answers from the conversation alone.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Question"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		h.sendError(w, http.StatusBadRequest, "Question is required")
		return
	}

	var contexts []models.RetrievedContext
	if req.UseRetrieval == nil || *req.UseRetrieval {
		retrieved, err := h.retrieval.Retrieve(r.Context(), req.Question, req.TopK)
		if err != nil {
			h.logger.Printf("Retrieval failed, answering with fallback: %v", err)
			h.sendFallback(w)
			return
		}
		contexts = retrieved
	}

	genReq := h.assembler.Assemble(req.Question, contexts, req.History)

	answer, err := h.router.Answer(r.Context(), genReq)
	if err != nil {
		var cfgErr *llm.ConfigError
		if errors.As(err, &cfgErr) {
			h.logger.Printf("Generation misconfigured: %v", cfgErr)
			h.sendError(w, http.StatusServiceUnavailable, "Answer generation is not configured")
			return
		}
		h.logger.Printf("Generation failed, answering with fallback: %v", err)
		h.sendFallback(w)
		return
	}

	// Empty-answer sentinel: the backend responded but produced no text.
	if answer == "" {
		h.logger.Printf("Generation produced no text, answering with fallback")
		h.sendFallback(w)
		return
	}

	h.sendJSON(w, http.StatusOK, models.ChatResponse{
		Answer:           answer,
		UsedContextCount: len(contexts),
		Sources:          h.assembler.Attributions(contexts),
		Status:           "success",
	})
}

// sendFallback answers politely with zero context attribution
func (h *ChatHandler) sendFallback(w http.ResponseWriter) {
	h.sendJSON(w, http.StatusOK, models.ChatResponse{
		Answer:           FallbackAnswer,
		UsedContextCount: 0,
		Sources:          []models.SourceAttribution{},
		Status:           "fallback",
	})
}

func (h *ChatHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *ChatHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}
