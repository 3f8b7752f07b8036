package apiserver

import (
	"fmt"
	"net/http"
	"strconv"

	"testgram/internal/config"
	"testgram/internal/services"
)

// ChatHandler 处理私聊相关的 HTTP 请求。
type ChatHandler struct {
	chatService    services.ChatService
	messageService services.MessageService
	pagination     config.PaginationConfig
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService services.ChatService, messageService services.MessageService, pagination config.PaginationConfig) *ChatHandler {
	return &ChatHandler{chatService: chatService, messageService: messageService, pagination: pagination}
}

// CreateChatRequest opens a chat with user_2.
type CreateChatRequest struct {
	User2 uint `json:"user_2"`
}

// CreateChatResponse is returned whether the chat was created or found.
type CreateChatResponse struct {
	ID          uint `json:"id"`
	CompanionID uint `json:"companion_id"`
}

// ChatListItem is one row of the chat directory. The last_message fields
// are null for chats without messages.
type ChatListItem struct {
	ID                  uint    `json:"id"`
	CompanionID         uint    `json:"companion_id"`
	CompanionName       string  `json:"companion_name"`
	LastMessageContent  *string `json:"last_message_content"`
	LastMessageDatetime *string `json:"last_message_datetime"`
	LastMessageAuthor   *string `json:"last_message_author"`
}

// MessageListItem is one message of a chat as seen by the requester.
type MessageListItem struct {
	ID            uint   `json:"id"`
	Content       string `json:"content"`
	MessageAuthor string `json:"message_author"`
	CreatedAt     string `json:"created_at"`
}

func toChatListItem(p services.ChatPreview) ChatListItem {
	item := ChatListItem{ID: p.ID, CompanionID: p.CompanionID, CompanionName: p.CompanionName}
	if p.LastMessageAt != nil {
		content, author, at := p.LastMessageContent, p.LastMessageAuthor, formatTime(*p.LastMessageAt)
		item.LastMessageContent = &content
		item.LastMessageAuthor = &author
		item.LastMessageDatetime = &at
	}
	return item
}

// parseChatFilter reads ?empty=: 0 keeps chats with messages, 1 keeps empty ones.
func parseChatFilter(r *http.Request) (services.ChatFilter, error) {
	raw := r.URL.Query().Get("empty")
	if raw == "" {
		return services.ChatFilterNone, nil
	}
	empty, err := strconv.ParseBool(raw)
	if err != nil {
		return services.ChatFilterNone, fmt.Errorf("%w: invalid empty %q", services.ErrValidation, raw)
	}
	if empty {
		return services.ChatFilterNoMessages, nil
	}
	return services.ChatFilterHasMessages, nil
}

// ListChats 返回当前用户的聊天列表。
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	filter, err := parseChatFilter(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	previews, total, err := h.chatService.ListChats(r.Context(), userID, filter, page.window())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	results := make([]ChatListItem, 0, len(previews))
	for _, p := range previews {
		results = append(results, toChatListItem(p))
	}
	writeJSONResponse(w, http.StatusOK, page.wrap(total, results))
}

// CreateChat answers 201 both for a new chat and for the existing one.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CreateChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	chat, _, err := h.chatService.CreateOrGetChat(r.Context(), userID, req.User2)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, CreateChatResponse{ID: chat.ID, CompanionID: chat.CompanionID(userID)})
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.chatService.DeleteChat(r.Context(), userID, chatID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages 返回聊天中的全部消息，最新的在前。
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathID(w, r)
	if !ok {
		return
	}

	views, err := h.messageService.ListMessages(r.Context(), userID, chatID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]MessageListItem, 0, len(views))
	for _, v := range views {
		items = append(items, MessageListItem{
			ID:            v.ID,
			Content:       v.Content,
			MessageAuthor: v.AuthorLabel,
			CreatedAt:     formatTime(v.CreatedAt),
		})
	}
	writeJSONResponse(w, http.StatusOK, items)
}
