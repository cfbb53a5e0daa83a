package mattermost

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fitpharm-api/internal/i18n"
	"fitpharm-api/internal/service"
)

const (
	maxListedErrors = 10

	colorOK      = "#2e7d32"
	colorSkipped = "#f9a825"
)

// PayrollNotifier posts a summary of each payroll batch run to one channel.
type PayrollNotifier struct {
	client    *Client
	channelID string
}

func NewPayrollNotifier(client *Client, channelID string) *PayrollNotifier {
	return &PayrollNotifier{client: client, channelID: channelID}
}

func (n *PayrollNotifier) PayrollProcessed(ctx context.Context, result *service.ProcessResult) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := n.client.CreatePost(ctx, PayrollSummaryPost(ctx, n.channelID, result))
	return err
}

// PayrollSummaryPost renders the batch result as a post with one attachment
// carrying the counts and the first few per-employee errors.
func PayrollSummaryPost(ctx context.Context, channelID string, result *service.ProcessResult) *Post {
	net := decimal.Zero
	for _, p := range result.Results {
		net = net.Add(decimal.NewFromFloat(p.NetSalary))
	}

	color := colorOK
	if result.Skipped > 0 {
		color = colorSkipped
	}
	att := Attachment{
		Color: color,
		Text:  formatErrors(result.Errors),
		Fields: []Field{
			{Title: i18n.T(ctx, "payroll.notify.processed"), Value: strconv.Itoa(result.Processed), Short: true},
			{Title: i18n.T(ctx, "payroll.notify.skipped"), Value: strconv.Itoa(result.Skipped), Short: true},
			{Title: i18n.T(ctx, "payroll.notify.net_total"), Value: net.StringFixed(2), Short: true},
		},
	}
	return &Post{
		ChannelID: channelID,
		Message:   i18n.T(ctx, "payroll.notify.title", map[string]any{"Period": result.PayPeriod}),
		Props:     Props{Attachments: []Attachment{att}},
	}
}

func formatErrors(errs []string) string {
	var b strings.Builder
	for i, e := range errs {
		if i == maxListedErrors {
			fmt.Fprintf(&b, "- … (+%d)\n", len(errs)-maxListedErrors)
			break
		}
		b.WriteString("- ")
		b.WriteString(e)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
