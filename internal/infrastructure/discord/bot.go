package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"ReadingScribe/internal/usecase"
)

// Bot owns the gateway session and translates Discord events into router calls.
type Bot struct {
	session *discordgo.Session
	router  *usecase.Router
	logger  *slog.Logger
}

// NewSession builds an authenticated session with the intents the bot needs.
func NewSession(botToken string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent
	return session, nil
}

// NewBot registers the event handlers on the session.
func NewBot(session *discordgo.Session, router *usecase.Router, logger *slog.Logger) *Bot {
	b := &Bot{session: session, router: router, logger: logger}
	session.AddHandler(b.handleReady)
	session.AddHandler(b.handleMessageCreate)
	session.AddHandler(b.handleInteractionCreate)
	return b
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in", "user", r.User.Username, "id", r.User.ID)
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	msg := usecase.InboundMessage{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
		FromBot:   m.Author.Bot || (s.State.User != nil && m.Author.ID == s.State.User.ID),
		InThread:  b.inThread(s, m.ChannelID),
	}
	for _, att := range m.Attachments {
		msg.Attachments = append(msg.Attachments, usecase.Attachment{
			Filename: att.Filename,
			URL:      att.URL,
		})
	}

	b.router.HandleMessage(context.Background(), msg)
}

func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent || i.Message == nil {
		return
	}

	data := i.MessageComponentData()
	var isRead bool
	switch data.CustomID {
	case choiceAlreadyRead:
		isRead = true
	case choiceNotYetRead:
		isRead = false
	default:
		return
	}

	// Acknowledge immediately; the publish outcome arrives as a follow-up
	// message from the workflow.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		b.logger.Warn("acknowledge interaction", "error", err)
	}

	b.router.HandleChoice(context.Background(), i.Message.ID, isRead)
}

// inThread reports whether the channel is an analysis thread rather than the
// watched channel itself.
func (b *Bot) inThread(s *discordgo.Session, channelID string) bool {
	ch, err := s.State.Channel(channelID)
	if err != nil {
		ch, err = s.Channel(channelID)
	}
	if err != nil || ch == nil {
		return false
	}
	return ch.IsThread()
}
