package apiserver

import (
	"net/http"

	"testgram/internal/services"
)

// MessageHandler 处理消息的发送与删除。
type MessageHandler struct {
	messageService services.MessageService
}

// NewMessageHandler 创建一个新的 MessageHandler 实例。
func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest 定义了发送消息请求的结构体。
type SendMessageRequest struct {
	Chat    uint   `json:"chat"`
	Content string `json:"content"`
}

// MessageResponse is the stored message.
type MessageResponse struct {
	ID        uint   `json:"id"`
	Chat      uint   `json:"chat"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// SendMessage 处理发送消息的请求。
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	msg, err := h.messageService.PostMessage(r.Context(), userID, req.Chat, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, MessageResponse{
		ID:        msg.ID,
		Chat:      msg.ChatID,
		Content:   msg.Content,
		CreatedAt: formatTime(msg.CreatedAt),
	})
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	messageID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.messageService.DeleteMessage(r.Context(), userID, messageID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
