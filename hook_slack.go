package vette

import (
	"context"
	"fmt"
	"os"

	"github.com/lestrrat-go/slack"
)

// HookSlack posts one line per hold event to a Slack channel so a
// moderator team sees held posts without polling the admin page.
type HookSlack struct{}

func (h *HookSlack) Name() string {
	return "slack"
}

func (h *HookSlack) notify(msg string) error {
	username := "Vette"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := os.Getenv("SLACK_TOKEN")
	if len(token) == 0 {
		return fmt.Errorf("missing SLACK_TOKEN, please set `SLACK_TOKEN`")
	}

	channel := os.Getenv("SLACK_CHANNEL")
	if len(channel) == 0 {
		return fmt.Errorf("missing SLACK_CHANNEL, please set `SLACK_CHANNEL`")
	}

	cl := slack.New(token)
	_, err := cl.Chat().PostMessage(channel).Username(username).Text(msg).Do(ctx)
	return err
}

func (h *HookSlack) AfterInit() {
}

func (h *HookSlack) AfterHold(d *AfterHoldData) {
	err := h.notify(fmt.Sprintf("`%s` held post from `%s` (%s): %s", d.List, d.Sender, d.MessageID, d.Reason))
	if err != nil {
		fmt.Printf("[%s] %s\n", h.Name(), err)
	}
}
