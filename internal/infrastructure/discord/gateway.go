// Package discord adapts the bot to the Discord gateway: inbound events are
// translated into router calls, outbound actions implement ports.ChatGateway.
package discord

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"ReadingScribe/internal/ports"
)

// Component IDs for the two review buttons.
const (
	choiceAlreadyRead = "review_already_read"
	choiceNotYetRead  = "review_not_yet_read"
)

// Threads auto-archive after this many minutes of inactivity.
const threadAutoArchiveMinutes = 60

// Gateway implements ports.ChatGateway on top of a discordgo session.
type Gateway struct {
	session *discordgo.Session
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.ChatGateway = (*Gateway)(nil)

// NewGateway wires the session; the HTTP client serves attachment downloads.
func NewGateway(session *discordgo.Session, logger *slog.Logger) *Gateway {
	return &Gateway{
		session: session,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// CreateThread starts an analysis thread hanging off the triggering message.
func (g *Gateway) CreateThread(ctx context.Context, channelID, messageID, name string) (string, error) {
	thread, err := g.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: threadAutoArchiveMinutes,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("start thread: %w", err)
	}
	return thread.ID, nil
}

// RenameThread sets the thread name, typically to the summary title.
func (g *Gateway) RenameThread(ctx context.Context, threadID, name string) error {
	if _, err := g.session.ChannelEdit(threadID, &discordgo.ChannelEdit{Name: name}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit thread: %w", err)
	}
	return nil
}

// Send posts a plain message and returns its ID.
func (g *Gateway) Send(ctx context.Context, channelID, content string) (string, error) {
	msg, err := g.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return msg.ID, nil
}

// PresentChoices posts the summary message with the two review buttons.
func (g *Gateway) PresentChoices(ctx context.Context, channelID, content string) (string, error) {
	msg, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: choiceButtons(false),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send message with choices: %w", err)
	}
	return msg.ID, nil
}

// DisableChoices rewrites the message's buttons as inert.
func (g *Gateway) DisableChoices(ctx context.Context, channelID, messageID string) error {
	disabled := choiceButtons(true)
	_, err := g.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Components: &disabled,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("disable choices: %w", err)
	}
	return nil
}

// DownloadAttachment fetches the raw bytes of a message attachment.
func (g *Gateway) DownloadAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download attachment: unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func choiceButtons(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Already Read",
					Style:    discordgo.SecondaryButton,
					CustomID: choiceAlreadyRead,
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Not yet read",
					Style:    discordgo.PrimaryButton,
					CustomID: choiceNotYetRead,
					Disabled: disabled,
				},
			},
		},
	}
}
