package domain

// Conversation summarizes the thread with one partner.
type Conversation struct {
	ConversationID     ID     `json:"conversationId"`
	PartnerID          ID     `json:"partnerId"`
	PartnerUsername    string `json:"partnerUsername"`
	PartnerEmail       string `json:"partnerEmail"`
	PartnerFirstName   string `json:"partnerFirstName"`
	PartnerLastName    string `json:"partnerLastName"`
	LastMessageContent string `json:"lastMessageContent"`
	LastMessageTime    string `json:"lastMessageTime"`
	UnreadCount        int    `json:"unreadCount"`
}

// Message is a direct message.
type Message struct {
	ID                ID     `json:"id"`
	SenderID          ID     `json:"senderId"`
	SenderUsername    string `json:"senderUsername,omitempty"`
	RecipientID       ID     `json:"recipientId"`
	RecipientUsername string `json:"recipientUsername,omitempty"`
	Subject           string `json:"subject"`
	Content           string `json:"content"`
	ConversationID    ID     `json:"conversationId,omitempty"`
	SentAt            string `json:"sentAt"`
	IsRead            bool   `json:"isRead"`
	IsDelivered       bool   `json:"isDelivered"`
}

// MessageRequest sends or edits a message.
type MessageRequest struct {
	RecipientID int64  `json:"recipientId" validate:"required,gt=0"`
	Subject     string `json:"subject" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

// Notification is an in-app notification.
type Notification struct {
	ID        ID     `json:"id"`
	UserID    ID     `json:"userId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
	ReadAt    string `json:"readAt,omitempty"`
}
