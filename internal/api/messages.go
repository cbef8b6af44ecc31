package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

var messageRoutes = struct {
	Conversations, ConversationWith, MarkConversationRead, List, Send, Get, Update, Delete,
	ByConversation, ByUser, Search, MarkRead, MarkDelivered Route
}{
	Conversations:        Route{Name: "messages.conversations", Method: http.MethodGet, Path: "v1/messages/conversations"},
	ConversationWith:     Route{Name: "messages.conversation_with", Method: http.MethodGet, Path: "v1/messages/conversations/{partnerId}"},
	MarkConversationRead: Route{Name: "messages.mark_conversation_read", Method: http.MethodPut, Path: "v1/messages/conversations/{partnerId}/read"},
	List:                 Route{Name: "messages.list", Method: http.MethodGet, Path: "v1/messages"},
	Send:                 Route{Name: "messages.send", Method: http.MethodPost, Path: "v1/messages"},
	Get:                  Route{Name: "messages.get", Method: http.MethodGet, Path: "v1/messages/{id}"},
	Update:               Route{Name: "messages.update", Method: http.MethodPut, Path: "v1/messages/{id}"},
	Delete:               Route{Name: "messages.delete", Method: http.MethodDelete, Path: "v1/messages/{id}"},
	ByConversation:       Route{Name: "messages.by_conversation", Method: http.MethodGet, Path: "v1/messages/conversation/{conversationId}"},
	ByUser:               Route{Name: "messages.by_user", Method: http.MethodGet, Path: "v1/messages/user/{userId}"},
	Search:               Route{Name: "messages.search", Method: http.MethodGet, Path: "v1/messages/search"},
	MarkRead:             Route{Name: "messages.mark_read", Method: http.MethodPut, Path: "v1/messages/{id}/read"},
	MarkDelivered:        Route{Name: "messages.mark_delivered", Method: http.MethodPut, Path: "v1/messages/{id}/delivered"},
}

// MessagesAPI is the direct messaging inbox.
type MessagesAPI struct{ client }

func (m *MessagesAPI) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	return invoke[[]domain.Conversation](ctx, &m.client, messageRoutes.Conversations, call{})
}

// ConversationWith returns the thread with one partner.
func (m *MessagesAPI) ConversationWith(ctx context.Context, partnerID string) ([]domain.Message, error) {
	return invoke[[]domain.Message](ctx, &m.client, messageRoutes.ConversationWith, withParams(partnerID))
}

func (m *MessagesAPI) MarkConversationRead(ctx context.Context, partnerID string) error {
	return exec(ctx, &m.client, messageRoutes.MarkConversationRead, withParams(partnerID))
}

func (m *MessagesAPI) List(ctx context.Context) ([]domain.Message, error) {
	return invoke[[]domain.Message](ctx, &m.client, messageRoutes.List, call{})
}

func (m *MessagesAPI) Send(ctx context.Context, req domain.MessageRequest) (*domain.Message, error) {
	return invoke[*domain.Message](ctx, &m.client, messageRoutes.Send, call{body: req})
}

func (m *MessagesAPI) Get(ctx context.Context, id string) (*domain.Message, error) {
	return invoke[*domain.Message](ctx, &m.client, messageRoutes.Get, withParams(id))
}

func (m *MessagesAPI) Update(ctx context.Context, id string, req domain.MessageRequest) (*domain.Message, error) {
	return invoke[*domain.Message](ctx, &m.client, messageRoutes.Update, call{params: []string{id}, body: req})
}

func (m *MessagesAPI) Delete(ctx context.Context, id string) error {
	return exec(ctx, &m.client, messageRoutes.Delete, withParams(id))
}

func (m *MessagesAPI) ByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return invoke[[]domain.Message](ctx, &m.client, messageRoutes.ByConversation, withParams(conversationID))
}

func (m *MessagesAPI) ByUser(ctx context.Context, userID string) ([]domain.Message, error) {
	return invoke[[]domain.Message](ctx, &m.client, messageRoutes.ByUser, withParams(userID))
}

func (m *MessagesAPI) Search(ctx context.Context, query string) ([]domain.Message, error) {
	return invoke[[]domain.Message](ctx, &m.client, messageRoutes.Search, call{query: url.Values{"query": {query}}})
}

func (m *MessagesAPI) MarkRead(ctx context.Context, id string) error {
	return exec(ctx, &m.client, messageRoutes.MarkRead, withParams(id))
}

func (m *MessagesAPI) MarkDelivered(ctx context.Context, id string) error {
	return exec(ctx, &m.client, messageRoutes.MarkDelivered, withParams(id))
}

var notificationRoutes = struct {
	List, MarkRead, MarkAllRead, UnreadCount, Delete Route
}{
	List:        Route{Name: "notifications.list", Method: http.MethodGet, Path: "v1/notifications"},
	MarkRead:    Route{Name: "notifications.mark_read", Method: http.MethodPut, Path: "v1/notifications/{id}/read"},
	MarkAllRead: Route{Name: "notifications.mark_all_read", Method: http.MethodPut, Path: "v1/notifications/read-all"},
	UnreadCount: Route{Name: "notifications.unread_count", Method: http.MethodGet, Path: "v1/notifications/unread-count"},
	Delete:      Route{Name: "notifications.delete", Method: http.MethodDelete, Path: "v1/notifications/{id}"},
}

// NotificationsAPI reads and acknowledges the operator's notifications.
type NotificationsAPI struct{ client }

func (n *NotificationsAPI) List(ctx context.Context) ([]domain.Notification, error) {
	return invoke[[]domain.Notification](ctx, &n.client, notificationRoutes.List, call{})
}

func (n *NotificationsAPI) MarkRead(ctx context.Context, id string) error {
	return exec(ctx, &n.client, notificationRoutes.MarkRead, withParams(id))
}

func (n *NotificationsAPI) MarkAllRead(ctx context.Context) error {
	return exec(ctx, &n.client, notificationRoutes.MarkAllRead, call{})
}

// UnreadCount returns the number of unread notifications; a missing count
// reads as zero.
func (n *NotificationsAPI) UnreadCount(ctx context.Context) (int, error) {
	resp, err := invoke[struct {
		Count *int `json:"count"`
	}](ctx, &n.client, notificationRoutes.UnreadCount, call{})
	if err != nil {
		return 0, err
	}
	if resp.Count == nil {
		return 0, nil
	}
	return *resp.Count, nil
}

func (n *NotificationsAPI) Delete(ctx context.Context, id string) error {
	return exec(ctx, &n.client, notificationRoutes.Delete, withParams(id))
}
