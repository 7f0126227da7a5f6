package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/samber/oops"

	monitorDomain "github.com/telewatch/telewatch/internal/modules/monitor/domain"
	"github.com/telewatch/telewatch/internal/modules/rules/domain"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
)

// Service renders recent keyword hits as an RSS feed so alerts can be
// followed from a feed reader as well as from Telegram.
type Service struct {
	store rulesRepo.Store
}

// New creates a new feed service
func New(store rulesRepo.Store) *Service {
	return &Service{store: store}
}

// GenerateFeed builds an RSS feed of the most recent matched messages.
func (s *Service) GenerateFeed(ctx context.Context, baseURL string) (*feeds.Feed, error) {
	messages, err := s.store.RecentMessages(ctx, 50)
	if err != nil {
		return nil, oops.With("context", "failed to get matched messages").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "Keyword Alerts",
		Link:        &feeds.Link{Href: baseURL + "/rss"},
		Description: "Recent keyword hits across monitored Telegram groups",
		Created:     time.Now(),
	}
	if len(messages) > 0 {
		feed.Updated = messages[0].CreatedAt
	}

	var items []*feeds.Item
	for _, msg := range messages {
		items = append(items, matchToFeedItem(&msg))
	}
	feed.Items = items
	return feed, nil
}

func matchToFeedItem(msg *domain.MatchedMessage) *feeds.Item {
	description := msg.Content
	if description == "" {
		description = "No text content"
	}

	sender := msg.Username
	if sender == "" {
		sender = fmt.Sprintf("%d", msg.UserID)
	}

	return &feeds.Item{
		Title:       fmt.Sprintf("[%s] %s", msg.MatchedKeyword, truncate(msg.Content, 100)),
		Link:        &feeds.Link{Href: messageLink(msg)},
		Description: description,
		Content:     fmt.Sprintf("<p>%s</p>", escapeHTML(description)),
		Author:      &feeds.Author{Name: sender},
		Created:     msg.CreatedAt,
		Id:          fmt.Sprintf("%d-%d", msg.ChatID, msg.MessageID),
	}
}

func messageLink(msg *domain.MatchedMessage) string {
	if monitorDomain.IsSupergroupChatID(msg.ChatID) {
		return fmt.Sprintf("https://t.me/c/%d/%d", monitorDomain.StripSupergroupMarker(msg.ChatID), msg.MessageID)
	}
	return fmt.Sprintf("tg://user?id=%d", msg.UserID)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func escapeHTML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	).Replace(s)
}
