package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type senderContext struct {
	tele.Context
	sender *tele.User
}

func (c senderContext) Sender() *tele.User { return c.sender }

type rosterSet map[int64]bool

func (r rosterSet) IsAdmin(id int64) bool { return r[id] }

func TestAdminOnlyMiddlewareGatesByRoster(t *testing.T) {
	var reached bool
	handler := AdminOnlyMiddleware(AdminOptions{Roster: rosterSet{100: true}})(func(tele.Context) error {
		reached = true
		return nil
	})

	if err := handler(senderContext{sender: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("non-roster call: %v", err)
	}
	if reached {
		t.Fatal("handler ran for a non-roster sender")
	}

	if err := handler(senderContext{sender: &tele.User{ID: 100}}); err != nil {
		t.Fatalf("roster call: %v", err)
	}
	if !reached {
		t.Fatal("handler did not run for a roster sender")
	}
}

func TestAdminOnlyMiddlewareRejectHook(t *testing.T) {
	var rejected bool
	handler := AdminOnlyMiddleware(AdminOptions{
		Roster: rosterSet{},
		OnReject: func(tele.Context) error {
			rejected = true
			return nil
		},
	})(func(tele.Context) error {
		t.Fatal("handler must not run for a rejected sender")
		return nil
	})

	if err := handler(senderContext{sender: &tele.User{ID: 5}}); err != nil {
		t.Fatalf("reject path: %v", err)
	}
	if !rejected {
		t.Fatal("reject hook was not invoked")
	}
}
