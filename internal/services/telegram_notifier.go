package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dealdesk/internal/authz"
	"dealdesk/internal/lifecycle"
	"dealdesk/internal/models"
	"dealdesk/internal/repositories"
)

// TelegramNotifier pings the people who have to act next after a status
// change. Everything here is best-effort: a dead bot must never block a
// transition, so errors are only logged.
type TelegramNotifier struct {
	bot   *tgbotapi.BotAPI
	users repositories.UserRepository
}

// NewTelegramNotifier returns nil when the token is empty, which disables
// notifications entirely (the deal service tolerates a nil notifier).
func NewTelegramNotifier(botToken string, users repositories.UserRepository) *TelegramNotifier {
	if botToken == "" {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg] bot init failed, notifications disabled: %v", err)
		return nil
	}
	return &TelegramNotifier{bot: bot, users: users}
}

// nextRoleFor maps an entered status to the role that has to act on it.
// Zero means "notify the deal owner instead".
func nextRoleFor(to lifecycle.Status) int {
	switch to {
	case lifecycle.StatusSubmitted:
		return authz.RoleApprover
	case lifecycle.StatusApproved, lifecycle.StatusClientReview:
		return authz.RoleLegal
	}
	return 0
}

func (n *TelegramNotifier) NotifyStatusChange(deal *models.Deal, from, to lifecycle.Status) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("Deal <b>%s</b> moved from %s to <b>%s</b>", deal.Title, from, to)

	if roleID := nextRoleFor(to); roleID != 0 {
		users, err := n.users.ListByRole(roleID)
		if err != nil {
			log.Printf("[tg][notify] list users for role=%d: %v", roleID, err)
			return
		}
		for _, u := range users {
			n.send(u, text)
		}
		return
	}

	// остальные переходы — уведомляем владельца сделки
	owner, err := n.users.GetByID(deal.OwnerID)
	if err != nil || owner == nil {
		log.Printf("[tg][notify] owner lookup for deal=%d: %v", deal.ID, err)
		return
	}
	n.send(owner, text)
}

func (n *TelegramNotifier) send(u *models.User, text string) {
	if !u.NotifyTelegram || u.TelegramChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(u.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("[tg][notify] send to chat=%d: %v", u.TelegramChatID, err)
	}
}
