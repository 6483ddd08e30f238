// Package notify posts audit completion summaries to Slack.
package notify

import (
	"context"
	"fmt"
	"strings"

	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/sentinel/internal/dashboard"
	"github.com/gosuda/sentinel/internal/domain"
)

// SlackAPI abstracts the subset of the Slack client used by the Notifier.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// Notifier posts a compliance summary when an audit run finishes.
type Notifier struct {
	api     SlackAPI
	channel string
}

func New(api SlackAPI, channel string) *Notifier {
	return &Notifier{api: api, channel: channel}
}

func (n *Notifier) AuditCompleted(ctx context.Context, run *domain.AuditRun) error {
	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slacklib.MsgOptionText(summaryText(run), false))
	if err != nil {
		return fmt.Errorf("notify.Notifier.AuditCompleted: %w", err)
	}

	return nil
}

func summaryText(run *domain.AuditRun) string {
	stats := dashboard.Aggregate(run.Results)

	var b strings.Builder
	fmt.Fprintf(&b, ":clipboard: Audit complete: *%s*\n", run.PolicyName)
	fmt.Fprintf(&b, "Overall compliance: %.1f%% (%d pass / %d fail, %d checks)\n",
		stats.OverallCompliance, stats.TotalPass, stats.TotalFail, stats.TotalChecks)

	for _, r := range stats.ModelRankings {
		fmt.Fprintf(&b, "• %s: %.1f%%\n", r.ModelName, r.ComplianceScore)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
