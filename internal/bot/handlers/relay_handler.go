package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/media"
	"github.com/xodimov/relaybot/internal/store"
	"github.com/xodimov/relaybot/internal/textutil"
)

// NewRelayHandler returns the default handler for all non-command messages.
//
// Messages from regular users are recorded and forwarded to the admin with
// an inline action keyboard. Messages from the admin are relayed to the
// current reply target, if one is armed.
func NewRelayHandler(deps HandlerDeps) bot.HandlerFunc {
	return relayHandler{deps}.Handle
}

type relayHandler struct {
	deps HandlerDeps
}

func (h relayHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if update.Message.From.ID == h.deps.Config.Telegram.AdminID {
		h.handleAdminMessage(ctx, b, update.Message)
		return
	}
	h.handleUserMessage(ctx, b, update.Message)
}

// handleAdminMessage relays the admin's free-form message to the armed reply
// target. Without a target it only reminds the admin how reply mode works.
func (h relayHandler) handleAdminMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "relay_admin")
	msgs := h.deps.Config.Messages
	adminID := msg.From.ID

	target, ok := h.deps.Targets.Get(adminID)
	if !ok {
		h.send(ctx, b, log, msg.Chat.ID, msgs.AdminReplyHint)
		return
	}

	recorded := msg.Text
	var err error
	if msg.Text != "" {
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: target, Text: msg.Text})
	} else if desc, hasMedia := media.Describe(msg); hasMedia {
		recorded = desc.Text
		err = resendMedia(ctx, b, target, msg, desc.Kind)
	} else {
		h.send(ctx, b, log, msg.Chat.ID, "❌ This message type cannot be relayed.")
		return
	}

	if err != nil {
		// Target stays armed so the admin can retry.
		log.ErrorContext(ctx, "Failed to relay admin message", "error", err, "target_user_id", target)
		h.send(ctx, b, log, msg.Chat.ID, msgs.ReplyFailed)
		return
	}

	if err := h.deps.Store.AppendAdminReply(target, recorded); err != nil {
		log.ErrorContext(ctx, "Failed to record relayed reply", "error", err, "target_user_id", target)
	}
	h.deps.Targets.Clear(adminID)

	log.InfoContext(ctx, "Relayed admin message", "target_user_id", target)
	h.send(ctx, b, log, msg.Chat.ID, msgs.ReplySent)
}

// handleUserMessage records an incoming user message and forwards it to the
// admin. Blocked users still get their messages recorded, but receive no
// confirmation and nothing reaches the admin.
func (h relayHandler) handleUserMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "relay_user")
	msgs := h.deps.Config.Messages
	userID := msg.From.ID

	if msg.Document != nil {
		if ok, reason := media.CheckFile(msg.Document.FileName, msg.Document.MimeType); !ok {
			log.WarnContext(ctx, "Rejected file from user", "user_id", userID, "reason", reason)
			h.send(ctx, b, log, msg.Chat.ID, "❌ "+reason)
			return
		}
	}

	text := msg.Text
	if text == "" {
		desc, hasMedia := media.Describe(msg)
		if !hasMedia {
			log.DebugContext(ctx, "Ignoring message without text or supported media", "user_id", userID)
			return
		}
		text = desc.Text
	}

	profile := store.Profile{
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Username:  msg.From.Username,
	}
	if err := h.deps.Store.AppendUserMessage(userID, profile, text, int64(msg.ID)); err != nil {
		log.ErrorContext(ctx, "Failed to record user message", "error", err, "user_id", userID)
		h.send(ctx, b, log, msg.Chat.ID, msgs.GeneralError)
		return
	}

	if h.deps.Store.IsBlocked(userID) {
		log.InfoContext(ctx, "Dropped message from blocked user", "user_id", userID)
		return
	}

	h.send(ctx, b, log, msg.Chat.ID, msgs.Received)

	name := textutil.EscapeHTML(strings.TrimSpace(profile.FirstName + " " + profile.LastName))
	header := fmt.Sprintf("📨 <b>%s</b>", name)
	if profile.Username != "" {
		header += " @" + textutil.EscapeHTML(profile.Username)
	}
	header += fmt.Sprintf(" (<code>%d</code>)", userID)

	keyboard := models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "↩️ Reply", CallbackData: fmt.Sprintf("reply_%d", userID)},
				{Text: "📜 History", CallbackData: fmt.Sprintf("user_%d", userID)},
			},
			{
				{Text: "🚫 Block", CallbackData: fmt.Sprintf("block_%d", userID)},
			},
		},
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      h.deps.Config.Telegram.AdminID,
		Text:        header + "\n\n" + textutil.EscapeHTML(text),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to forward message to admin", "error", err, "user_id", userID)
		return
	}

	log.InfoContext(ctx, "Forwarded user message to admin", "user_id", userID)
}

func (h relayHandler) send(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send response", "error", err, "chat_id", chatID)
	}
}

// resendMedia re-sends the attachment of msg to chatID by file id, so the
// bytes never pass through this process. Polls cannot be re-sent; their
// descriptor text is sent instead.
func resendMedia(ctx context.Context, b *bot.Bot, chatID int64, msg *models.Message, kind string) error {
	var err error
	switch kind {
	case media.KindPhoto:
		photo := msg.Photo[len(msg.Photo)-1]
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID: chatID, Photo: &models.InputFileString{Data: photo.FileID}, Caption: msg.Caption,
		})
	case media.KindVideo:
		_, err = b.SendVideo(ctx, &bot.SendVideoParams{
			ChatID: chatID, Video: &models.InputFileString{Data: msg.Video.FileID}, Caption: msg.Caption,
		})
	case media.KindAudio:
		_, err = b.SendAudio(ctx, &bot.SendAudioParams{
			ChatID: chatID, Audio: &models.InputFileString{Data: msg.Audio.FileID}, Caption: msg.Caption,
		})
	case media.KindVoice:
		_, err = b.SendVoice(ctx, &bot.SendVoiceParams{
			ChatID: chatID, Voice: &models.InputFileString{Data: msg.Voice.FileID}, Caption: msg.Caption,
		})
	case media.KindVideoNote:
		_, err = b.SendVideoNote(ctx, &bot.SendVideoNoteParams{
			ChatID: chatID, VideoNote: &models.InputFileString{Data: msg.VideoNote.FileID},
		})
	case media.KindDocument:
		_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID: chatID, Document: &models.InputFileString{Data: msg.Document.FileID}, Caption: msg.Caption,
		})
	case media.KindSticker:
		_, err = b.SendSticker(ctx, &bot.SendStickerParams{
			ChatID: chatID, Sticker: &models.InputFileString{Data: msg.Sticker.FileID},
		})
	case media.KindAnimation:
		_, err = b.SendAnimation(ctx, &bot.SendAnimationParams{
			ChatID: chatID, Animation: &models.InputFileString{Data: msg.Animation.FileID}, Caption: msg.Caption,
		})
	case media.KindLocation:
		_, err = b.SendLocation(ctx, &bot.SendLocationParams{
			ChatID: chatID, Latitude: msg.Location.Latitude, Longitude: msg.Location.Longitude,
		})
	case media.KindVenue:
		_, err = b.SendVenue(ctx, &bot.SendVenueParams{
			ChatID: chatID, Latitude: msg.Venue.Location.Latitude, Longitude: msg.Venue.Location.Longitude,
			Title: msg.Venue.Title, Address: msg.Venue.Address,
		})
	case media.KindContact:
		_, err = b.SendContact(ctx, &bot.SendContactParams{
			ChatID: chatID, PhoneNumber: msg.Contact.PhoneNumber,
			FirstName: msg.Contact.FirstName, LastName: msg.Contact.LastName,
		})
	case media.KindDice:
		_, err = b.SendDice(ctx, &bot.SendDiceParams{ChatID: chatID, Emoji: msg.Dice.Emoji})
	default:
		desc, _ := media.Describe(msg)
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: desc.Text})
	}
	return err
}
