package bot

import (
	"testing"

	"github.com/codewithmemo/memobot/bot/roster"

	tele "gopkg.in/telebot.v4"
)

type senderContext struct {
	tele.Context
	sender *tele.User
}

func (c senderContext) Sender() *tele.User { return c.sender }

func TestAdminOnlyCallbackDropsNonRoster(t *testing.T) {
	a := &App{roster: roster.New([]int64{100})}

	var reached bool
	h := a.adminOnly(func(tele.Context) error {
		reached = true
		return nil
	})

	if err := h(senderContext{sender: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("non-roster callback: %v", err)
	}
	if reached {
		t.Fatal("admin-only callback ran for a non-roster sender")
	}

	if err := h(senderContext{sender: &tele.User{ID: 100}}); err != nil {
		t.Fatalf("roster callback: %v", err)
	}
	if !reached {
		t.Fatal("admin-only callback did not run for a roster sender")
	}
}
