package services

import (
	"fmt"

	"testgram/internal/models"
)

// requireOwner allows a mutation only by the resource's author.
func requireOwner(authorID, userID uint, what string) error {
	if authorID != userID {
		return fmt.Errorf("%w: only the author may modify this %s", ErrForbidden, what)
	}
	return nil
}

// isParticipant reports whether userID may see chat. A nil chat has no
// participants.
func isParticipant(chat *models.Chat, userID uint) bool {
	return chat != nil && chat.HasParticipant(userID)
}

// chatNotFound is the single error shape for both missing chats and chats
// the requester does not take part in.
func chatNotFound(chatID uint) error {
	return fmt.Errorf("%w: chat %d", ErrNotFound, chatID)
}
