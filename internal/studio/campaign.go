package studio

import (
	"github.com/jackzampolin/presence/internal/campaign"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/session"
)

// Campaign brief formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// CampaignResult is a rendered campaign brief.
type CampaignResult struct {
	Brief    campaign.Brief `json:"brief"`
	Format   string         `json:"format"`
	Body     string         `json:"body"`
	Filename string         `json:"filename"`
	Item     *history.Item  `json:"item,omitempty"`
}

// CampaignBrief assembles the session's campaign brief. When save is set
// the markdown is recorded in history.
func (s *Studio) CampaignBrief(st *session.State, format string, save bool) (*CampaignResult, error) {
	b := campaign.Build(st.Profile.Get(), st.History, s.now())
	md := b.Markdown()

	res := &CampaignResult{Brief: b, Format: FormatMarkdown, Body: md, Filename: campaign.Filename}
	if format == FormatHTML {
		html, err := campaign.RenderHTML(md)
		if err != nil {
			return nil, err
		}
		res.Format = FormatHTML
		res.Body = html
		res.Filename = "campaign_brief.html"
	}

	if save {
		item := st.History.Append(history.KindCampaignBrief,
			map[string]any{"company": b.Company.Name, "generated": b.Generated.Format(history.TimeFormat)},
			md, "brief", "campaign")
		res.Item = &item
	}
	return res, nil
}

// ShareResult is the outcome of Share.
type ShareResult struct {
	Message string       `json:"message"`
	Item    history.Item `json:"item"`
}

// Share records a simulated hand-off of the campaign brief.
func (s *Studio) Share(st *session.State, share campaign.Share) (*ShareResult, error) {
	share, err := share.Normalize()
	if err != nil {
		return nil, err
	}
	item := st.History.Append(history.KindBriefShare, share.Payload(s.now()), campaign.ShareResult, share.Tags()...)
	s.logger.Info("campaign brief shared", "session", st.ID, "channel", share.Channel)
	return &ShareResult{
		Message: "Shared via " + share.Channel + " (mock) to " + share.Recipient() + ".",
		Item:    item,
	}, nil
}
